package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/billie/internal/audit"
	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/geometry"
	"github.com/jonathan/billie/internal/overlay"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderCmd = &cobra.Command{
	Use:   "render DIR",
	Short: "Paint the overlay onto a captured page",
	Long:  "Reads the audit.json, layout.json and page.html written by capture, paints the violation markers, optionally opens the tooltip for one selector, and writes the annotated HTML.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var (
	renderOpen       string
	renderOutputFile string
)

func init() {
	renderCmd.Flags().StringVar(&renderOpen, "open", "", "Selector whose tooltip is opened in the output")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Output HTML file (required)")

	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	_, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	html, err := renderCapture(cmd.Context(), args[0], renderOpen, log)
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderOutputFile, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", renderOutputFile, err)
	}
	log.Info("rendered overlay", zap.String("out", renderOutputFile))
	return nil
}

// renderCapture loads a capture directory into an in-memory document, runs
// the overlay on it, and returns the resulting HTML.
func renderCapture(ctx context.Context, dir, open string, log *zap.Logger) (string, error) {
	result, err := audit.LoadFile(filepath.Join(dir, auditFile))
	if err != nil {
		return "", err
	}
	layout, err := geometry.LoadLayout(filepath.Join(dir, layoutFile))
	if err != nil {
		return "", err
	}
	f, err := os.Open(filepath.Join(dir, pageFile))
	if err != nil {
		return "", fmt.Errorf("failed to open page file: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := dom.NewDocument(f, layout)
	if err != nil {
		return "", err
	}
	doc.AddStylesheet(overlay.Stylesheet)

	o := overlay.New(doc, audit.Static(result), overlay.WithLogger(log))
	if err := o.Bootstrap(ctx); err != nil {
		return "", err
	}
	if open != "" {
		if err := o.Dispatch(ctx, dom.Open(open)); err != nil {
			return "", fmt.Errorf("failed to open tooltip for %s: %w", open, err)
		}
	}
	return doc.HTML()
}
