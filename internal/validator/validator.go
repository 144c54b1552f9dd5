// Package validator checks inbound prompts before any upstream call is made.
package validator

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf16"

	"videogen-gateway/internal/models"
)

// MaxPromptLength is the largest accepted prompt, in UTF-16 code units.
const MaxPromptLength = 500

var (
	// ErrEmptyPrompt indicates the prompt is missing or only whitespace.
	ErrEmptyPrompt = errors.New("prompt is required")

	// ErrPromptTooLong indicates the prompt exceeds MaxPromptLength.
	ErrPromptTooLong = errors.New("prompt exceeds maximum length")
)

// Validate returns the request for a usable prompt. The prompt is passed
// through untouched: whitespace only matters for the emptiness check, and the
// length bound applies to the raw input the user typed.
//
// Length is measured in UTF-16 code units, the unit browser clients count in,
// so a character outside the Basic Multilingual Plane (most emoji) counts as
// two.
func Validate(rawPrompt string) (models.GenerationRequest, error) {
	if strings.TrimFunc(rawPrompt, isBlank) == "" {
		return models.GenerationRequest{}, ErrEmptyPrompt
	}
	if Length(rawPrompt) > MaxPromptLength {
		return models.GenerationRequest{}, ErrPromptTooLong
	}
	return models.GenerationRequest{Prompt: rawPrompt}, nil
}

// Length reports the size of s in UTF-16 code units.
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// isBlank matches Unicode white space and the byte order mark.
func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
