package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"videogen-gateway/internal/provider/replicate"
)

type urlList []string

func (l urlList) URL() string { return "accessor-wins" }

func TestVideoURL(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{name: "string", raw: "https://cdn.example/a.mp4", want: "https://cdn.example/a.mp4"},
		{name: "file output", raw: replicate.NewFileOutput("https://cdn.example/b.mp4"), want: "https://cdn.example/b.mp4"},
		{name: "string slice", raw: []string{"https://cdn.example/c.mp4", "https://cdn.example/d.mp4"}, want: "https://cdn.example/c.mp4"},
		{name: "any slice", raw: []any{"https://cdn.example/e.mp4", 42}, want: "https://cdn.example/e.mp4"},
		{name: "accessor beats sequence", raw: urlList{"ignored"}, want: "accessor-wins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VideoURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVideoURLRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "nil", raw: nil},
		{name: "empty string", raw: ""},
		{name: "empty slice", raw: []any{}},
		{name: "empty string slice", raw: []string{}},
		{name: "non-string first element", raw: []any{map[string]any{"url": "x"}}},
		{name: "map", raw: map[string]any{"video": "x"}},
		{name: "number", raw: 3.14},
		{name: "empty accessor", raw: replicate.NewFileOutput("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VideoURL(tt.raw)
			assert.ErrorIs(t, err, ErrNoVideoURL)
		})
	}
}

func TestVideoURLShapesAgree(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		url := "https://cdn.example/" + rapid.StringMatching(`[a-z0-9]{1,24}`).Draw(rt, "name") + ".mp4"

		shapes := []any{
			url,
			replicate.NewFileOutput(url),
			[]any{url},
			[]string{url, "https://cdn.example/other.mp4"},
		}
		for _, shape := range shapes {
			got, err := VideoURL(shape)
			if err != nil {
				rt.Fatalf("shape %T: %v", shape, err)
			}
			if got != url {
				rt.Fatalf("shape %T: got %q want %q", shape, got, url)
			}
		}
	})
}
