// Package browser drives Chrome over the DevTools protocol: it launches the
// browser, opens tabs, and exposes each tab as an overlay page.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultTimeout bounds each round trip to the page.
const DefaultTimeout = 30 * time.Second

// Options configures the browser.
type Options struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	// Stylesheet is injected into every page the overlay runtime is installed in.
	Stylesheet string
}

// DefaultOptions returns sensible defaults for a headless audit.
func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        DefaultTimeout,
		ViewportWidth:  1280,
		ViewportHeight: 800,
	}
}

// Browser is a running Chrome instance.
type Browser struct {
	opts *Options
	log  *zap.Logger

	ctx           context.Context
	cancel        context.CancelFunc
	allocCancel   context.CancelFunc
	mu            sync.Mutex
	firstTabTaken bool
}

// Launch starts Chrome. Requires Chrome/Chromium to be installed on the system.
func Launch(ctx context.Context, opts *Options, log *zap.Logger) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			log.Debug(fmt.Sprintf(format, args...))
		}),
	)

	log.Debug("starting browser", zap.Bool("headless", opts.Headless))
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Browser{
		opts:        opts,
		log:         log,
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// NewSession opens a tab. The first call reuses the tab Chrome starts with.
func (b *Browser) NewSession() (*Session, error) {
	b.mu.Lock()
	reuse := !b.firstTabTaken
	b.firstTabTaken = true
	b.mu.Unlock()

	tabCtx, cancel := b.ctx, context.CancelFunc(func() {})
	if !reuse {
		tabCtx, cancel = chromedp.NewContext(b.ctx)
		if err := chromedp.Run(tabCtx); err != nil {
			cancel()
			return nil, fmt.Errorf("failed to open tab: %w", err)
		}
	}
	return newSession(tabCtx, cancel, b.opts, b.log), nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.cancel()
	b.allocCancel()
}
