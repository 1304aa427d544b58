package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/billie/internal/audit"
	"github.com/jonathan/billie/internal/browser"
	"github.com/jonathan/billie/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Files written by capture and read by render.
const (
	auditFile  = "audit.json"
	layoutFile = "layout.json"
	pageFile   = "page.html"
)

var captureCmd = &cobra.Command{
	Use:   "capture URL",
	Short: "Save a page, its audit, and its layout for offline rendering",
	Long:  "Audits URL in a headless browser and writes audit.json, layout.json (the box of every violating element plus the viewport) and page.html to the output directory.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapture,
}

var captureOutputDir string

func init() {
	addAuditFlags(captureCmd)
	captureCmd.Flags().StringVarP(&captureOutputDir, "out", "o", "", "Output directory (required)")

	if err := captureCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := os.MkdirAll(captureOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", captureOutputDir, err)
	}

	ctx := cmd.Context()
	axeSource, err := loadAxe(ctx, cfg, log)
	if err != nil {
		return err
	}

	b, err := browser.Launch(ctx, browserOptions(cfg, cfg.Headless), log)
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

	result, err := browser.NewAxeEngine(session, axeSource, cfg.RunOnly, log).Run(ctx)
	if err != nil {
		return err
	}
	if result.URL == "" {
		result.URL = args[0]
	}
	st := store.Build(result)

	layout, err := session.Snapshot(ctx, st.Selectors())
	if err != nil {
		return err
	}
	html, err := session.OuterHTML(ctx)
	if err != nil {
		return err
	}

	if err := audit.SaveFile(filepath.Join(captureOutputDir, auditFile), result); err != nil {
		return err
	}
	if err := layout.Save(filepath.Join(captureOutputDir, layoutFile)); err != nil {
		return err
	}
	pagePath := filepath.Join(captureOutputDir, pageFile)
	if err := os.WriteFile(pagePath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write page file %s: %w", pagePath, err)
	}

	log.Info("captured page",
		zap.String("url", args[0]),
		zap.String("out", captureOutputDir),
		zap.Int("selectors", st.Len()),
		zap.Int("measured", len(layout.Rects)))
	return nil
}
