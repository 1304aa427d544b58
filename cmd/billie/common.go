package main

import (
	"context"
	"fmt"

	"github.com/jonathan/billie/internal/browser"
	"github.com/jonathan/billie/internal/config"
	"github.com/jonathan/billie/internal/fetch"
	"github.com/jonathan/billie/internal/observability"
	"github.com/jonathan/billie/internal/overlay"
	"github.com/jonathan/billie/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// violationsFoundError reports that an audit found violations at or above the
// --fail-on threshold. main exits with status 2 for it.
type violationsFoundError struct {
	Count     int
	Threshold types.Impact
}

func (e *violationsFoundError) Error() string {
	return fmt.Sprintf("%d violations at or above %s impact", e.Count, e.Threshold)
}

// addAuditFlags registers the flags shared by commands that launch a browser
// and run axe. Their names match config keys so they override config values.
func addAuditFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().String("axe-source", d.AxeSource, "URL or file path of the axe-core script")
	cmd.Flags().StringSlice("run-only", nil, "Only run axe rules with these tags (e.g. wcag2a,wcag2aa)")
	cmd.Flags().Duration("timeout", d.Timeout, "Timeout for each page operation")
	cmd.Flags().Int("viewport-width", d.ViewportWidth, "Browser window width")
	cmd.Flags().Int("viewport-height", d.ViewportHeight, "Browser window height")
}

// setup loads the configuration and builds the logger for a command.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := observability.NewLogger(level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// loadAxe fetches the axe-core script named by the configuration.
func loadAxe(ctx context.Context, cfg *config.Config, log *zap.Logger) (string, error) {
	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.Timeout
	log.Debug("loading axe-core", zap.String("source", cfg.AxeSource))
	source, err := fetch.Script(ctx, cfg.AxeSource, opts)
	if err != nil {
		return "", fmt.Errorf("failed to load axe-core: %w", err)
	}
	return source, nil
}

func browserOptions(cfg *config.Config, headless bool) *browser.Options {
	return &browser.Options{
		Headless:       headless,
		Timeout:        cfg.Timeout,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		Stylesheet:     overlay.Stylesheet,
	}
}

// failOn parses the configured threshold. An empty value disables it.
func failOn(cfg *config.Config) (types.Impact, error) {
	if cfg.FailOn == "" {
		return "", nil
	}
	return types.ParseImpact(cfg.FailOn)
}
