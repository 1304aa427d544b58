package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/billie/internal/browser"
	"github.com/jonathan/billie/internal/overlay"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run URL",
	Short: "Open a page with the violation overlay",
	Long:  "Opens URL in a visible browser, audits it with axe-core, paints a marker over every violating element, and shows details when a marker is clicked. Runs until the tab is closed or the process is interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	addAuditFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	axeSource, err := loadAxe(ctx, cfg, log)
	if err != nil {
		return err
	}

	b, err := browser.Launch(ctx, browserOptions(cfg, false), log)
	if err != nil {
		return err
	}
	defer b.Close()

	session, err := b.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Navigate(ctx, args[0]); err != nil {
		return err
	}

	engine := browser.NewAxeEngine(session, axeSource, cfg.RunOnly, log)
	o := overlay.New(session, engine, overlay.WithLogger(log))
	if err := o.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to start overlay on %s: %w", args[0], err)
	}
	log.Info("overlay ready", zap.String("url", args[0]), zap.Int("markers", len(o.Markers())))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-session.Done():
			log.Info("tab closed")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := o.Serve(ctx, session.Events()); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
