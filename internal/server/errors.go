package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"videogen-gateway/internal/translator"
)

const (
	generateFailedMessage = "Failed to generate video. Please try again."
	internalErrorMessage  = "Something went wrong!"
)

// requestError is rendered as-is by jsonErrorHandler. Details are dropped in production.
type requestError struct {
	Status  int
	Message string
	Details string
}

func (e requestError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// decodeRequestBody accepts exactly one JSON object. An empty body, or one
// not declared as JSON, decodes to the zero value so a missing prompt is
// reported by validation, not as a fault.
func decodeRequestBody[T any](c echo.Context, target *T) error {
	req := c.Request()
	defer req.Body.Close()

	if !isJSONContent(req.Header.Get(echo.HeaderContentType)) {
		return nil
	}

	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBodyBytes)

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.ErrStatusRequestEntityTooLarge
		}
		return requestError{
			Status:  http.StatusInternalServerError,
			Message: generateFailedMessage,
			Details: fmt.Sprintf("invalid JSON payload: %v", err),
		}
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return requestError{
			Status:  http.StatusInternalServerError,
			Message: generateFailedMessage,
			Details: "request body must contain a single JSON object",
		}
	}
	return nil
}

func isJSONContent(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), echo.MIMEApplicationJSON)
}

func writeError(c echo.Context, status int, message, details string) error {
	if c.Request().Method == http.MethodHead {
		return c.NoContent(status)
	}
	return c.JSON(status, translator.ErrorResponse{Error: message, Details: details})
}

func jsonErrorHandler(production bool) echo.HTTPErrorHandler {
	details := func(d string) string {
		if production {
			return ""
		}
		return d
	}

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var reqErr requestError
		if errors.As(err, &reqErr) {
			if reqErr.Status >= http.StatusInternalServerError {
				slog.Error("request failed", "status", reqErr.Status, "err", reqErr.Error())
			}
			_ = writeError(c, reqErr.Status, reqErr.Message, details(reqErr.Details))
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			message := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok && m != "" {
				message = m
			}
			_ = writeError(c, he.Code, message, "")
			return
		}

		slog.Error("unhandled error", "err", err)
		_ = writeError(c, http.StatusInternalServerError, internalErrorMessage, details(err.Error()))
	}
}
