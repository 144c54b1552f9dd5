// Package generator turns a validated prompt into a playable video.
//
// Generate never fails: provider errors, timeouts, unrecognised output and
// panics are logged and absorbed, and the request is answered from the
// fallback catalog instead. Callers get availability at the cost of never
// learning that the upstream failed.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"videogen-gateway/internal/models"
	"videogen-gateway/internal/provider"
)

const (
	videoDuration   = "5-10 seconds"
	providerMessage = "AI video generated successfully!"
	fallbackMessage = "Video generated successfully! (Demo mode - using sample video)"

	maxSeed         = 1_000_000
	logPromptLength = 80
)

// Attempt outcomes reported to the Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeNoURL   = "no_url"
)

// Recorder receives generation telemetry.
type Recorder interface {
	ObserveAttempt(model, outcome string, elapsed time.Duration)
	ObserveResult(source string)
}

// Options tunes the orchestrator.
type Options struct {
	NegativePrompt string
	// AttemptTimeout bounds each upstream call.
	AttemptTimeout time.Duration
	// RequestTimeout bounds the whole provider phase across all attempts.
	RequestTimeout time.Duration
	// FallbackDelay is waited before a fallback result is returned.
	FallbackDelay time.Duration
	Recorder      Recorder
}

// Generator attempts provider configurations in order and falls back to the catalog.
type Generator struct {
	candidates []provider.Candidate
	catalog    *Catalog
	opts       Options
}

// New snapshots the registry's candidates; later registrations are not seen.
func New(registry *provider.Registry, catalog *Catalog, opts Options) (*Generator, error) {
	if registry == nil {
		return nil, errors.New("registry must not be nil")
	}
	if catalog == nil {
		return nil, errors.New("fallback catalog must not be nil")
	}
	if opts.AttemptTimeout <= 0 {
		return nil, fmt.Errorf("attempt timeout must be positive, got %s", opts.AttemptTimeout)
	}
	if opts.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive, got %s", opts.RequestTimeout)
	}
	if opts.FallbackDelay < 0 {
		return nil, fmt.Errorf("fallback delay must not be negative, got %s", opts.FallbackDelay)
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	return &Generator{
		candidates: registry.Candidates(),
		catalog:    catalog,
		opts:       opts,
	}, nil
}

// Generate returns a video for req. It always succeeds.
func (g *Generator) Generate(ctx context.Context, req models.GenerationRequest) models.NormalizedVideo {
	slog.Info("generating video", "prompt", truncate(req.Prompt, logPromptLength))

	if video, ok := g.tryProviders(ctx, req); ok {
		g.opts.Recorder.ObserveResult(models.SourceProvider)
		return video
	}

	video := g.fallback(ctx, req)
	g.opts.Recorder.ObserveResult(models.SourceFallback)
	return video
}

func (g *Generator) tryProviders(ctx context.Context, req models.GenerationRequest) (models.NormalizedVideo, bool) {
	if len(g.candidates) == 0 {
		slog.Info("no provider configured, using demo mode")
		return models.NormalizedVideo{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.RequestTimeout)
	defer cancel()

	var lastErr error
	for _, candidate := range g.candidates {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		url, err := g.attempt(ctx, candidate, req.Prompt)
		if err != nil {
			lastErr = err
			continue
		}

		return models.NormalizedVideo{
			Success:  true,
			VideoURL: url,
			Prompt:   req.Prompt,
			Duration: videoDuration,
			Message:  providerMessage,
			Source:   models.SourceProvider,
			Model:    candidate.Config.Name,
			Status:   models.StatusGenerated,
		}, true
	}

	slog.Warn("all video models failed, falling back to demo mode", "last_error", lastErr)
	return models.NormalizedVideo{}, false
}

func (g *Generator) attempt(ctx context.Context, candidate provider.Candidate, prompt string) (url string, err error) {
	name := candidate.Config.Name
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, g.opts.AttemptTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: provider panic: %v", name, r)
			g.opts.Recorder.ObserveAttempt(name, OutcomeError, time.Since(start))
			slog.Error("video model panicked", "model", name, "panic", r)
		}
	}()

	slog.Info("trying video model", "model", name, "identifier", candidate.Config.Identifier)

	raw, err := candidate.Provider.Run(ctx, candidate.Config.Identifier, g.buildInput(candidate.Config, prompt))
	if err != nil {
		g.opts.Recorder.ObserveAttempt(name, OutcomeError, time.Since(start))
		slog.Warn("video model run failed", "model", name, "err", err)
		return "", fmt.Errorf("%s: %w", name, err)
	}

	url, err = VideoURL(raw)
	if err != nil {
		g.opts.Recorder.ObserveAttempt(name, OutcomeNoURL, time.Since(start))
		slog.Warn("video model returned unexpected output format", "model", name, "output_type", fmt.Sprintf("%T", raw))
		return "", fmt.Errorf("%s: %w", name, err)
	}

	elapsed := time.Since(start)
	g.opts.Recorder.ObserveAttempt(name, OutcomeSuccess, elapsed)
	slog.Info("video model generated video", "model", name, "url", url, "latency_ms", elapsed.Milliseconds())
	return url, nil
}

// buildInput layers the prompt over the configuration's parameters. The
// shared negative prompt applies unless the configuration sets its own.
func (g *Generator) buildInput(cfg models.ProviderConfig, prompt string) map[string]any {
	input := make(map[string]any, len(cfg.Parameters)+3)
	for k, v := range cfg.Parameters {
		input[k] = v
	}
	input["prompt"] = prompt
	if _, ok := input["negative_prompt"]; !ok && g.opts.NegativePrompt != "" {
		input["negative_prompt"] = g.opts.NegativePrompt
	}
	if cfg.RandomSeed {
		input["seed"] = rand.IntN(maxSeed)
	}
	return input
}

func (g *Generator) fallback(ctx context.Context, req models.GenerationRequest) models.NormalizedVideo {
	sample := g.catalog.Pick()
	slog.Info("using demo mode with sample video", "url", sample.URL, "delay", g.opts.FallbackDelay)

	sleep(ctx, g.opts.FallbackDelay)

	return models.NormalizedVideo{
		Success:     true,
		VideoURL:    sample.URL,
		Prompt:      req.Prompt,
		Duration:    videoDuration,
		Message:     fallbackMessage,
		Source:      models.SourceFallback,
		Status:      models.StatusGenerated,
		Description: sample.Description,
	}
}

// sleep returns early if ctx ends; the caller answers regardless.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

type nopRecorder struct{}

func (nopRecorder) ObserveAttempt(string, string, time.Duration) {}
func (nopRecorder) ObserveResult(string)                         {}
