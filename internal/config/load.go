package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultEnvFile = ".env"

// Load builds the configuration from defaults, an optional YAML file, an
// optional dotenv file and the process environment, then validates it.
// Environment values take precedence over the YAML file.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = defaultCORSOrigins(cfg.Server.Environment)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", absPath, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %q: %w", absPath, err)
	}
	return nil
}

// loadEnvFile never overrides variables already present in the environment.
// A missing default file is ignored; a missing explicit file is an error.
func loadEnvFile(envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", envFile, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if token := firstEnv("REPLICATE_API_TOKEN", "REPLICATE_API_KEY"); token != "" {
		cfg.Replicate.APIToken = token
	}
	if env := firstEnv("APP_ENV", "NODE_ENV"); env != "" {
		cfg.Server.Environment = strings.ToLower(env)
	}
	if raw := strings.TrimSpace(os.Getenv("PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("PORT %q is not a number: %w", raw, err)
		}
		cfg.Server.Port = port
	}
	if raw := os.Getenv("CORS_ORIGINS"); strings.TrimSpace(raw) != "" {
		cfg.Server.CORSOrigins = splitList(raw)
	}
	if baseURL := strings.TrimSpace(os.Getenv("REPLICATE_BASE_URL")); baseURL != "" {
		cfg.Replicate.BaseURL = baseURL
	}
	if dir := strings.TrimSpace(os.Getenv("STATIC_DIR")); dir != "" {
		cfg.Server.StaticDir = dir
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
