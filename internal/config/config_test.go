package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REPLICATE_API_TOKEN", "REPLICATE_API_KEY", "APP_ENV", "NODE_ENV",
		"PORT", "CORS_ORIGINS", "REPLICATE_BASE_URL", "STATIC_DIR",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Replicate.HasCredential())
	assert.Len(t, cfg.Replicate.Models, 3)
	assert.Equal(t, "luma/ray", cfg.Replicate.Models[0].Identifier)
	assert.Len(t, cfg.Fallback.Videos, 4)
	assert.Equal(t, 60*time.Second, cfg.Generation.AttemptTimeout)
	assert.Equal(t, 3*time.Second, cfg.Fallback.Delay)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("REPLICATE_API_KEY", "r8_real_key")
	t.Setenv("NODE_ENV", "Production")
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.True(t, cfg.Replicate.HasCredential())
	assert.Equal(t, "r8_real_key", cfg.Replicate.APIToken)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadTokenPreferredOverKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("REPLICATE_API_TOKEN", "token-value")
	t.Setenv("REPLICATE_API_KEY", "key-value")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "token-value", cfg.Replicate.APIToken)
}

func TestProductionCORSDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://34.229.176.75:5000", "http://34.229.176.75"}, cfg.Server.CORSOrigins)
}

func TestLoadNonProductionEnvironmentIsPermissive(t *testing.T) {
	for _, env := range []string{"staging", "test", "qa-eu"} {
		t.Run(env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("NODE_ENV", env)

			cfg, err := Load("", "")
			require.NoError(t, err)
			assert.Equal(t, env, cfg.Server.Environment)
			assert.False(t, cfg.IsProduction())
			assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
		})
	}
}

func TestHasCredential(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "absent", token: "", want: false},
		{name: "whitespace", token: "   ", want: false},
		{name: "token placeholder", token: "your_replicate_api_token_here", want: false},
		{name: "key placeholder", token: "your_replicate_api_key_here", want: false},
		{name: "real token", token: "r8_abc123", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplicateConfig{APIToken: tt.token}.HasCredential())
		})
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
server:
  port: 9000
generation:
  attempt_timeout: 15s
replicate:
  models:
    - name: Only Model
      identifier: owner/model
      random_seed: true
      parameters:
        fps: 12
fallback:
  delay: 0s
  videos:
    - url: https://example.com/sample.mp4
      description: Sample
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Generation.AttemptTimeout)
	require.Len(t, cfg.Replicate.Models, 1)
	assert.Equal(t, "Only Model", cfg.Replicate.Models[0].Name)
	assert.Equal(t, 12, cfg.Replicate.Models[0].Parameters["fps"])
	assert.Equal(t, time.Duration(0), cfg.Fallback.Delay)
	require.Len(t, cfg.Fallback.Videos, 1)

	providers := cfg.Replicate.ProviderConfigs()
	require.Len(t, providers, 1)
	assert.True(t, providers[0].RandomSeed)
	assert.Equal(t, "https://example.com/sample.mp4", cfg.Fallback.Catalog()[0].URL)
}

func TestLoadEnvBeatsYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	path := writeFile(t, "config.yaml", "server:\n  port: 9000\n")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that exists, even when empty.
	require.NoError(t, os.Unsetenv("REPLICATE_API_TOKEN"))
	envPath := writeFile(t, "test.env", "REPLICATE_API_TOKEN=from-dotenv\n")

	cfg, err := Load("", envPath)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Replicate.APIToken)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		envFile string
		errMsg  string
	}{
		{
			name:   "unknown yaml field",
			yaml:   "server:\n  prot: 1\n",
			errMsg: "parse config file",
		},
		{
			name:   "port out of range",
			yaml:   "server:\n  port: 70000\n",
			errMsg: "Port",
		},
		{
			name:   "non-numeric port env",
			env:    map[string]string{"PORT": "abc"},
			errMsg: "PORT",
		},
		{
			name:   "empty environment",
			yaml:   "server:\n  environment: \"\"\n",
			errMsg: "Environment",
		},
		{
			name:   "duplicate model names",
			yaml:   "replicate:\n  models:\n    - {name: A, identifier: a/b}\n    - {name: A, identifier: c/d}\n",
			errMsg: "duplicate model name",
		},
		{
			name:   "empty fallback catalog",
			yaml:   "fallback:\n  videos: []\n",
			errMsg: "at least one sample video",
		},
		{
			name:   "fallback delay too long",
			yaml:   "fallback:\n  delay: 30s\n",
			errMsg: "exceeds maximum",
		},
		{
			name:   "invalid header",
			yaml:   "replicate:\n  headers:\n    \"Bad Header\": x\n",
			errMsg: "canonical HTTP header",
		},
		{
			name:    "missing explicit env file",
			envFile: "/nonexistent/videogen.env",
			errMsg:  "load env file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeFile(t, "config.yaml", tt.yaml)
			}

			_, err := Load(path, tt.envFile)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
