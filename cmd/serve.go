package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"videogen-gateway/internal/config"
	"videogen-gateway/internal/generator"
	"videogen-gateway/internal/metrics"
	"videogen-gateway/internal/provider"
	providerfactory "videogen-gateway/internal/provider/factory"
	"videogen-gateway/internal/server"
)

const serveUsage = `Usage:
  videogen-gateway serve [--config <path>] [--env-file <path>] [--port <port>]

Flags:
  --config   string   Path to YAML configuration file (optional)
  --env-file string   Path to dotenv file (default ".env" if present)
  --port     int      Override server port from configuration and PORT`

type serveOptions struct {
	configPath   string
	envFile      string
	overridePort int
}

func parseServeFlags(args []string) (serveOptions, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, serveUsage)
	}

	var opts serveOptions
	fs.StringVar(&opts.configPath, "config", "", "path to configuration file")
	fs.StringVar(&opts.envFile, "env-file", "", "path to dotenv file")
	fs.IntVar(&opts.overridePort, "port", 0, "override server port")

	if err := fs.Parse(args); err != nil {
		return serveOptions{}, err
	}
	if fs.NArg() > 0 {
		return serveOptions{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.overridePort < 0 || opts.overridePort > 65535 {
		return serveOptions{}, fmt.Errorf("port override %d must be a valid TCP port", opts.overridePort)
	}
	return opts, nil
}

func loadConfig(opts serveOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath, opts.envFile)
	if err != nil {
		return config.Config{}, err
	}
	if opts.overridePort != 0 {
		cfg.Server.Port = opts.overridePort
	}
	return cfg, nil
}

// buildServer wires configuration into the provider registry, the generator
// and the HTTP layer.
func buildServer(cfg config.Config) (*server.Server, error) {
	registry := provider.NewRegistry()
	if err := providerfactory.RegisterConfiguredProviders(cfg, registry); err != nil {
		return nil, err
	}

	catalog, err := generator.NewCatalog(cfg.Fallback.Catalog())
	if err != nil {
		return nil, fmt.Errorf("build fallback catalog: %w", err)
	}

	collector := metrics.NewCollector()

	gen, err := generator.New(registry, catalog, generator.Options{
		NegativePrompt: cfg.Generation.NegativePrompt,
		AttemptTimeout: cfg.Generation.AttemptTimeout,
		RequestTimeout: cfg.Generation.RequestTimeout,
		FallbackDelay:  cfg.Fallback.Delay,
		Recorder:       collector,
	})
	if err != nil {
		return nil, fmt.Errorf("build generator: %w", err)
	}

	return server.New(cfg, gen, collector)
}

func serve(ctx context.Context, args []string) error {
	opts, err := parseServeFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse serve flags: %w", err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	server.ConfigureLogging(cfg, os.Stdout)

	srv, err := buildServer(cfg)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
