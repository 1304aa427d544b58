package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/billie/internal/browser"
	"github.com/jonathan/billie/internal/config"
	"github.com/jonathan/billie/internal/report"
	"github.com/jonathan/billie/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var auditCmd = &cobra.Command{
	Use:   "audit URL...",
	Short: "Audit pages and report their violations",
	Long:  "Audits one or more pages in a headless browser and prints the violation each element ends up with. Exits with status 2 when violations at or above --fail-on are found.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAudit,
}

func init() {
	addAuditFlags(auditCmd)
	auditCmd.Flags().StringP("format", "f", "text", "Output format: text, json, or yaml")
	auditCmd.Flags().String("fail-on", "", "Exit with status 2 when violations of this impact or worse exist")
	auditCmd.Flags().IntP("concurrency", "c", 4, "Number of pages audited at once")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	threshold, err := failOn(cfg)
	if err != nil {
		return err
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

	reports, err := auditAll(ctx, b, cfg, axeSource, args, log)
	if err != nil {
		return err
	}

	if err := report.Write(os.Stdout, format, reports); err != nil {
		return err
	}

	failing := 0
	for _, r := range reports {
		failing += r.Failing(threshold)
	}
	if failing > 0 {
		return &violationsFoundError{Count: failing, Threshold: threshold}
	}
	return nil
}

// auditAll audits every URL in its own tab, at most cfg.Concurrency at a
// time. Reports keep the order of urls.
func auditAll(ctx context.Context, b *browser.Browser, cfg *config.Config, axeSource string, urls []string, log *zap.Logger) ([]*report.Report, error) {
	reports := make([]*report.Report, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, url := range urls {
		g.Go(func() error {
			st, err := auditPage(ctx, b, cfg, axeSource, url, log)
			if err != nil {
				return fmt.Errorf("failed to audit %s: %w", url, err)
			}
			reports[i] = report.FromStore(url, st)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func auditPage(ctx context.Context, b *browser.Browser, cfg *config.Config, axeSource, url string, log *zap.Logger) (*store.Store, error) {
	session, err := b.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, url); err != nil {
		return nil, err
	}
	result, err := browser.NewAxeEngine(session, axeSource, cfg.RunOnly, log).Run(ctx)
	if err != nil {
		return nil, err
	}
	return store.Build(result), nil
}
