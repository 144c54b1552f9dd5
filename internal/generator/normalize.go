package generator

import (
	"errors"
	"fmt"

	"videogen-gateway/internal/provider"
)

// ErrNoVideoURL indicates a provider result did not yield a usable URL.
var ErrNoVideoURL = errors.New("provider output has no video url")

type urlAccessor interface {
	URL() string
}

// VideoURL extracts the video URL from a raw provider result. Shapes are
// matched in priority order: a string, a value exposing URL(), then a
// non-empty slice whose first element is a string.
func VideoURL(raw provider.Result) (string, error) {
	var url string

	switch v := raw.(type) {
	case string:
		url = v
	case urlAccessor:
		url = v.URL()
	case []string:
		if len(v) > 0 {
			url = v[0]
		}
	case []any:
		if len(v) > 0 {
			url, _ = v[0].(string)
		}
	default:
		return "", fmt.Errorf("%w: unrecognised output type %T", ErrNoVideoURL, raw)
	}

	if url == "" {
		return "", fmt.Errorf("%w: empty url in %T output", ErrNoVideoURL, raw)
	}
	return url, nil
}
