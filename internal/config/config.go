package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"videogen-gateway/internal/models"
)

// Well-known deployment names. Only EnvProduction changes behaviour; any
// other name (staging, test, ...) runs in the permissive mode.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Placeholder credentials shipped in sample env files. Either counts as "not configured".
const (
	placeholderAPIToken = "your_replicate_api_token_here"
	placeholderAPIKey   = "your_replicate_api_key_here"
)

const maxFallbackDelay = 10 * time.Second

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Replicate  ReplicateConfig  `yaml:"replicate"`
	Generation GenerationConfig `yaml:"generation"`
	Fallback   FallbackConfig   `yaml:"fallback"`
}

// ServerConfig defines listener and middleware configuration.
type ServerConfig struct {
	Port        int             `yaml:"port" validate:"gt=0,lt=65536"`
	Environment string          `yaml:"environment" validate:"required"`
	CORSOrigins []string        `yaml:"cors_origins" validate:"dive,required"`
	StaticDir   string          `yaml:"static_dir"`
	BodyLimit   string          `yaml:"body_limit" validate:"required"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig bounds requests per client IP on the API routes.
type RateLimitConfig struct {
	Requests int           `yaml:"requests" validate:"gte=0"`
	Window   time.Duration `yaml:"window" validate:"gte=0"`
}

// Enabled reports whether a limiter should be installed.
func (r RateLimitConfig) Enabled() bool {
	return r.Requests > 0 && r.Window > 0
}

// ReplicateConfig captures authentication and the ordered model list for the upstream provider.
type ReplicateConfig struct {
	APIToken string            `yaml:"-"`
	BaseURL  string            `yaml:"base_url" validate:"required,url"`
	Headers  map[string]string `yaml:"headers"`
	Models   []ModelConfig     `yaml:"models" validate:"dive"`
}

// ModelConfig describes one provider configuration tried in listed order.
type ModelConfig struct {
	Name       string         `yaml:"name" validate:"required"`
	Identifier string         `yaml:"identifier" validate:"required"`
	Parameters map[string]any `yaml:"parameters"`
	RandomSeed bool           `yaml:"random_seed"`
}

// GenerationConfig holds orchestrator tuning.
type GenerationConfig struct {
	NegativePrompt string        `yaml:"negative_prompt"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
}

// FallbackConfig holds the sample catalog used in demo mode.
type FallbackConfig struct {
	Delay  time.Duration   `yaml:"delay" validate:"gte=0"`
	Videos []FallbackVideo `yaml:"videos" validate:"dive"`
}

// FallbackVideo is one catalog entry.
type FallbackVideo struct {
	URL         string `yaml:"url" validate:"required,url"`
	Description string `yaml:"description"`
}

// IsProduction reports whether the restrictive deployment mode is active.
func (c Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// HasCredential reports whether a usable provider credential is configured.
func (r ReplicateConfig) HasCredential() bool {
	token := strings.TrimSpace(r.APIToken)
	switch token {
	case "", placeholderAPIToken, placeholderAPIKey:
		return false
	default:
		return true
	}
}

// ProviderConfigs converts the configured models into domain values, preserving order.
func (r ReplicateConfig) ProviderConfigs() []models.ProviderConfig {
	out := make([]models.ProviderConfig, 0, len(r.Models))
	for _, m := range r.Models {
		params := make(map[string]any, len(m.Parameters))
		for k, v := range m.Parameters {
			params[k] = v
		}
		out = append(out, models.ProviderConfig{
			Name:       m.Name,
			Identifier: m.Identifier,
			Parameters: params,
			RandomSeed: m.RandomSeed,
		})
	}
	return out
}

// Catalog converts the fallback entries into domain values.
func (f FallbackConfig) Catalog() []models.FallbackVideo {
	out := make([]models.FallbackVideo, 0, len(f.Videos))
	for _, v := range f.Videos {
		out = append(out, models.FallbackVideo{URL: v.URL, Description: v.Description})
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate performs strict sanity checks on the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("config %s: failed %q check (value %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return fmt.Errorf("validate config: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Replicate.Models))
	for _, m := range c.Replicate.Models {
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("replicate.models: duplicate model name %q", m.Name)
		}
		seen[m.Name] = struct{}{}
	}

	for headerKey := range c.Replicate.Headers {
		if !isCanonicalHTTPHeader(headerKey) {
			return fmt.Errorf("replicate.headers: %q is not a valid canonical HTTP header", headerKey)
		}
	}

	if len(c.Fallback.Videos) == 0 {
		return errors.New("fallback.videos: at least one sample video must be configured")
	}
	if c.Fallback.Delay > maxFallbackDelay {
		return fmt.Errorf("fallback.delay %s exceeds maximum of %s", c.Fallback.Delay, maxFallbackDelay)
	}

	return nil
}

func isCanonicalHTTPHeader(header string) bool {
	if header == "" {
		return false
	}

	for _, r := range header {
		if !(r == '-' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return false
		}
	}
	return true
}
