package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"videogen-gateway/internal/translator"
	"videogen-gateway/internal/validator"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, translator.NewHealthResponse(s.cfg.Server.Environment, s.startedAt, time.Now()))
}

// handleGenerateVideo answers 400 for an invalid prompt and 200 for everything
// that passes validation; upstream trouble never reaches the caller.
func (s *Server) handleGenerateVideo(c echo.Context) error {
	var body translator.GenerateVideoRequest
	if err := decodeRequestBody(c, &body); err != nil {
		return err
	}

	req, err := body.ToUnified()
	if err != nil {
		return s.rejectPrompt(err)
	}

	video := s.generator.Generate(c.Request().Context(), req)
	return c.JSON(http.StatusOK, translator.FromNormalized(video))
}

func (s *Server) rejectPrompt(err error) error {
	switch {
	case errors.Is(err, validator.ErrEmptyPrompt):
		s.metrics.ObserveRejection("empty_prompt")
		return requestError{Status: http.StatusBadRequest, Message: "Prompt is required"}
	case errors.Is(err, validator.ErrPromptTooLong):
		s.metrics.ObserveRejection("prompt_too_long")
		return requestError{Status: http.StatusBadRequest, Message: "Prompt too long. Maximum 500 characters allowed."}
	default:
		return err
	}
}
