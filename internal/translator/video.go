package translator

import (
	"time"

	"videogen-gateway/internal/models"
	"videogen-gateway/internal/validator"
)

// GenerateVideoRequest is the body of POST /api/generate-video.
type GenerateVideoRequest struct {
	Prompt string `json:"prompt"`
}

// ToUnified validates the body and converts it into a domain request.
func (r GenerateVideoRequest) ToUnified() (models.GenerationRequest, error) {
	return validator.Validate(r.Prompt)
}

// VideoResponse is the JSON rendering of a NormalizedVideo.
type VideoResponse struct {
	Success     bool   `json:"success"`
	VideoURL    string `json:"videoUrl"`
	Prompt      string `json:"prompt"`
	Duration    string `json:"duration"`
	Message     string `json:"message"`
	Source      string `json:"source"`
	Model       string `json:"model,omitempty"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// FromNormalized converts a domain result into its wire shape.
func FromNormalized(v models.NormalizedVideo) VideoResponse {
	return VideoResponse{
		Success:     v.Success,
		VideoURL:    v.VideoURL,
		Prompt:      v.Prompt,
		Duration:    v.Duration,
		Message:     v.Message,
		Source:      v.Source,
		Model:       v.Model,
		Status:      v.Status,
		Description: v.Description,
	}
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Environment string  `json:"environment"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
}

// NewHealthResponse reports liveness at now for a process started at startedAt.
func NewHealthResponse(environment string, startedAt, now time.Time) HealthResponse {
	return HealthResponse{
		Status:      "OK",
		Message:     "Video generation API is running",
		Environment: environment,
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		Uptime:      now.Sub(startedAt).Seconds(),
	}
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
