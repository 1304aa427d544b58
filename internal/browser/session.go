package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/inspector"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/geometry"
	"go.uber.org/zap"
)

// eventBuffer is how many page events may queue before new ones are dropped.
const eventBuffer = 64

// Session is one browser tab. It implements overlay.Page.
type Session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	css     string
	log     *zap.Logger

	events    chan dom.Event
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(ctx context.Context, cancel context.CancelFunc, opts *Options, log *zap.Logger) *Session {
	s := &Session{
		ctx:     ctx,
		cancel:  cancel,
		timeout: opts.Timeout,
		css:     opts.Stylesheet,
		log:     log,
		events:  make(chan dom.Event, eventBuffer),
		done:    make(chan struct{}),
	}

	chromedp.ListenTarget(ctx, s.onTargetEvent)
	go func() {
		<-ctx.Done()
		s.markDone()
	}()
	return s
}

func (s *Session) onTargetEvent(ev interface{}) {
	switch e := ev.(type) {
	case *cdpruntime.EventBindingCalled:
		if e.Name != bindingName {
			return
		}
		event, err := dom.ParseEvent(e.Payload)
		if err != nil {
			s.log.Warn("ignoring page event", zap.Error(err))
			return
		}
		select {
		case s.events <- event:
		default:
			s.log.Warn("event queue full, dropping event", zap.String("kind", string(event.Kind)))
		}
	case *inspector.EventDetached, *inspector.EventTargetCrashed:
		s.markDone()
	}
}

func (s *Session) markDone() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Events delivers clicks and key presses bound through Bind and ListenKey.
func (s *Session) Events() <-chan dom.Event {
	return s.events
}

// Done is closed when the tab goes away.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close closes the tab.
func (s *Session) Close() {
	s.cancel()
}

// Navigate loads url, waits for the body and installs the overlay runtime.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.log.Debug("navigating", zap.String("url", url))
	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return cdpruntime.AddBinding(bindingName).Do(ctx)
		}),
		chromedp.Evaluate(runtimeScript(s.css), nil),
	)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

// Measure implements geometry.Resolver using getBoundingClientRect.
func (s *Session) Measure(ctx context.Context, selector string) (geometry.Rect, error) {
	var res struct {
		Found bool `json:"found"`
		geometry.Rect
	}
	if err := s.call(ctx, &res, "measure", selector); err != nil {
		return geometry.Rect{}, &geometry.Error{Selector: selector, Message: "measure failed", Cause: err}
	}
	if !res.Found {
		return geometry.Rect{}, geometry.NotFound(selector)
	}
	return res.Rect, nil
}

// Viewport samples innerWidth, innerHeight and the scroll offsets.
func (s *Session) Viewport(ctx context.Context) (geometry.Viewport, error) {
	var vp geometry.Viewport
	if err := s.call(ctx, &vp, "viewport"); err != nil {
		return geometry.Viewport{}, err
	}
	return vp, nil
}

// Append inserts the element at the end of the body.
func (s *Session) Append(ctx context.Context, el *dom.Element) error {
	html, err := el.HTML()
	if err != nil {
		return fmt.Errorf("failed to render element: %w", err)
	}
	return s.call(ctx, nil, "append", html)
}

// Remove deletes the element with the given overlay id.
func (s *Session) Remove(ctx context.Context, id string) error {
	return s.call(ctx, nil, "remove", id)
}

// Bind makes a click on the element emit ev back to Events.
func (s *Session) Bind(ctx context.Context, id string, ev dom.Event) error {
	var ok bool
	if err := s.call(ctx, &ok, "bind", id, ev.Payload()); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cannot bind click: no element with id %s", id)
	}
	return nil
}

// ListenKey makes a keyup of key anywhere in the page emit ev.
func (s *Session) ListenKey(ctx context.Context, key string, ev dom.Event) error {
	return s.call(ctx, nil, "listenKey", key, ev.Payload())
}

// Snapshot records the viewport and the boxes of the given selectors.
// Selectors without a live element are left out.
func (s *Session) Snapshot(ctx context.Context, selectors []string) (*geometry.Layout, error) {
	vp, err := s.Viewport(ctx)
	if err != nil {
		return nil, err
	}
	layout := geometry.NewLayout(vp)
	for _, sel := range selectors {
		r, err := s.Measure(ctx, sel)
		if err != nil {
			s.log.Debug("not recorded in layout", zap.String("selector", sel), zap.Error(err))
			continue
		}
		layout.Set(sel, r)
	}
	return layout, nil
}

// OuterHTML returns the serialized document.
func (s *Session) OuterHTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// call invokes a method of the installed page runtime with JSON-encoded arguments.
func (s *Session) call(ctx context.Context, res interface{}, method string, args ...interface{}) error {
	encoded := make([]byte, 0, 64)
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to encode argument for %s: %w", method, err)
		}
		if i > 0 {
			encoded = append(encoded, ',')
		}
		encoded = append(encoded, b...)
	}
	expr := fmt.Sprintf("window.%s.%s(%s)", runtimeName, method, encoded)
	if err := s.run(ctx, chromedp.Evaluate(expr, res)); err != nil {
		return fmt.Errorf("page call %s failed: %w", method, err)
	}
	return nil
}

// run executes actions on the tab, bounded by the session timeout and by ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}
