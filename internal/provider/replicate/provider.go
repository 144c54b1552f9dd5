// Package replicate implements provider.Provider against the Replicate
// predictions API in synchronous ("Prefer: wait") mode. Predictions that are
// still running when the wait expires are reported as failures; they are not
// polled.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"videogen-gateway/internal/config"
	"videogen-gateway/internal/provider"
)

const (
	contentTypeJSON = "application/json"
	userAgent       = "videogen-gateway/0.1"
	maxWaitSeconds  = 60
	maxErrorBody    = 64 * 1024
)

var (
	// ErrPredictionFailed indicates the upstream reported a failed or canceled prediction.
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrPredictionPending indicates the prediction had not finished when the synchronous wait expired.
	ErrPredictionPending = errors.New("prediction not finished")
)

// Provider runs Replicate models over HTTP.
type Provider struct {
	name    string
	apiKey  string
	baseURL string
	headers map[string]string
	client  *http.Client
	wait    int
}

// New creates a Replicate provider. wait bounds the synchronous wait the
// upstream is asked to honour; it is clamped to the API maximum of 60 seconds.
func New(name string, cfg config.ReplicateConfig, client *http.Client, wait time.Duration) (*Provider, error) {
	if client == nil {
		return nil, errors.New("http client must not be nil")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("base url must not be empty")
	}
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("api token must not be empty")
	}

	seconds := int(wait / time.Second)
	if seconds <= 0 || seconds > maxWaitSeconds {
		seconds = maxWaitSeconds
	}

	return &Provider{
		name:    name,
		apiKey:  cfg.APIToken,
		baseURL: baseURL,
		headers: cfg.Headers,
		client:  client,
		wait:    seconds,
	}, nil
}

func (p *Provider) Name() string {
	return p.name
}

// Run creates a prediction for identifier ("owner/name" or "owner/name:version")
// and returns its decoded output.
func (p *Provider) Run(ctx context.Context, identifier string, input map[string]any) (provider.Result, error) {
	url, payload, err := p.predictionTarget(identifier, input)
	if err != nil {
		return nil, err
	}

	httpReq, err := p.newRequest(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, err
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("replicate prediction request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return nil, parseAPIError(httpResp)
	}

	var pred prediction
	if err := decodeJSON(httpResp.Body, &pred); err != nil {
		return nil, err
	}

	return pred.result()
}

func (p *Provider) predictionTarget(identifier string, input map[string]any) (string, predictionPayload, error) {
	identifier = strings.TrimSpace(identifier)
	model, version, hasVersion := strings.Cut(identifier, ":")

	owner, name, ok := strings.Cut(model, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", predictionPayload{}, fmt.Errorf("model identifier %q must be owner/name[:version]", identifier)
	}

	if hasVersion {
		if version == "" {
			return "", predictionPayload{}, fmt.Errorf("model identifier %q has an empty version", identifier)
		}
		return p.baseURL + "/predictions", predictionPayload{Version: version, Input: input}, nil
	}
	return fmt.Sprintf("%s/models/%s/%s/predictions", p.baseURL, owner, name), predictionPayload{Input: input}, nil
}

func (p *Provider) newRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("construct request: %w", err)
	}

	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Prefer", fmt.Sprintf("wait=%d", p.wait))

	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

type predictionPayload struct {
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
}

func (p prediction) result() (provider.Result, error) {
	switch p.Status {
	case "succeeded":
		return decodeOutput(p.Output)
	case "failed", "canceled":
		if p.Error != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrPredictionFailed, p.ID, p.Error)
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrPredictionFailed, p.ID, p.Status)
	default:
		return nil, fmt.Errorf("%w: %s is %q", ErrPredictionPending, p.ID, p.Status)
	}
}

// FileOutput is a file produced by a prediction, exposed through its URL.
type FileOutput struct {
	href string
}

// NewFileOutput wraps a file URL.
func NewFileOutput(url string) FileOutput {
	return FileOutput{href: url}
}

// URL returns the location of the file.
func (f FileOutput) URL() string {
	return f.href
}

func decodeOutput(raw json.RawMessage) (provider.Result, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return nil, fmt.Errorf("decode prediction output: %w", err)
	}

	if obj, ok := value.(map[string]any); ok {
		if href, ok := obj["url"].(string); ok {
			return NewFileOutput(href), nil
		}
	}
	return value, nil
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func parseAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("upstream error status %d and failed to read body: %w", resp.StatusCode, err)
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && (apiErr.Detail != "" || apiErr.Title != "") {
		return fmt.Errorf("replicate error status %d (%s): %s", resp.StatusCode, apiErr.Title, apiErr.Detail)
	}

	return fmt.Errorf("upstream error status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

func decodeJSON(reader io.Reader, target any) error {
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}
