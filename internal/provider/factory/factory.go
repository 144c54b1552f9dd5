package factory

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"videogen-gateway/internal/config"
	"videogen-gateway/internal/provider"
	replicateProvider "videogen-gateway/internal/provider/replicate"
)

const (
	defaultDialTimeout     = 10 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
	tlsHandshakeTimeout    = 10 * time.Second

	// Every request goes to the same host.
	maxIdleConns = 16

	// Headroom over the attempt timeout so the context deadline fires first.
	clientTimeoutSlack = 5 * time.Second
)

// RegisterConfiguredProviders registers the upstream provider when a usable
// credential is configured. Without one the registry stays empty and every
// request is served from the fallback catalog.
func RegisterConfiguredProviders(cfg config.Config, registry *provider.Registry) error {
	if registry == nil {
		return errors.New("registry must not be nil")
	}

	if !cfg.Replicate.HasCredential() {
		slog.Warn("replicate api key not configured, using demo mode")
		return nil
	}

	client := newHTTPClient(cfg.Generation.AttemptTimeout + clientTimeoutSlack)
	p, err := replicateProvider.New("replicate", cfg.Replicate, client, cfg.Generation.AttemptTimeout)
	if err != nil {
		return fmt.Errorf("initialise replicate provider: %w", err)
	}
	if err := registry.RegisterProvider(p, cfg.Replicate.ProviderConfigs()); err != nil {
		return fmt.Errorf("register replicate provider: %w", err)
	}

	slog.Info("replicate api key configured", "models", registry.Len())
	return nil
}

// newHTTPClient suits synchronous predictions: the response headers arrive
// only when the model finishes, so the header wait spans the whole budget
// while connection setup stays short.
func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          maxIdleConns,
			MaxIdleConnsPerHost:   maxIdleConns,
			IdleConnTimeout:       defaultIdleConnTimeout,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: timeout,
		},
	}
}
