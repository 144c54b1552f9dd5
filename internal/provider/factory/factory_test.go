package factory

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videogen-gateway/internal/config"
	"videogen-gateway/internal/provider"
)

func TestRegisterConfiguredProviders(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantCount int
	}{
		{name: "no credential", token: "", wantCount: 0},
		{name: "placeholder credential", token: "your_replicate_api_token_here", wantCount: 0},
		{name: "real credential", token: "r8_live", wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Replicate.APIToken = tt.token

			registry := provider.NewRegistry()
			require.NoError(t, RegisterConfiguredProviders(cfg, registry))
			assert.Equal(t, tt.wantCount, registry.Len())

			if tt.wantCount > 0 {
				candidates := registry.Candidates()
				assert.Equal(t, "Luma Ray", candidates[0].Config.Name)
				assert.Equal(t, "AnimateDiff Lightning", candidates[2].Config.Name)
				assert.Equal(t, "replicate", candidates[0].Provider.Name())
			}
		})
	}
}

func TestRegisterConfiguredProvidersNilRegistry(t *testing.T) {
	assert.Error(t, RegisterConfiguredProviders(config.Default(), nil))
}

func TestNewHTTPClient(t *testing.T) {
	client := newHTTPClient(65 * time.Second)
	assert.Equal(t, 65*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 65*time.Second, transport.ResponseHeaderTimeout)
	assert.Equal(t, transport.MaxIdleConns, transport.MaxIdleConnsPerHost)
}
