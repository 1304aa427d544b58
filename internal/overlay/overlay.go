package overlay

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/billie/internal/audit"
	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/store"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned when Bootstrap runs a second time.
var ErrAlreadyStarted = errors.New("overlay already bootstrapped")

// Overlay wires the audit, the violation store, the marker layer and the
// tooltip manager to one page.
type Overlay struct {
	page   Page
	engine audit.Engine
	log    *zap.Logger
	newID  func() string

	store   *store.Store
	markers []Marker
	tooltip *TooltipManager
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Overlay) {
		if log != nil {
			o.log = log
		}
	}
}

// WithIDGenerator replaces the element id generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *Overlay) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// New creates an overlay for page fed by engine.
func New(page Page, engine audit.Engine, opts ...Option) *Overlay {
	o := &Overlay{
		page:   page,
		engine: engine,
		log:    zap.NewNop(),
		newID:  func() string { return "billie-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Bootstrap runs the audit once, builds the store, paints every marker and
// registers the page-wide Escape listener. An audit failure aborts before
// anything is painted.
func (o *Overlay) Bootstrap(ctx context.Context) error {
	if o.store != nil {
		return ErrAlreadyStarted
	}

	result, err := o.engine.Run(ctx)
	if err != nil {
		var auditErr *audit.Error
		if errors.As(err, &auditErr) {
			return err
		}
		return &audit.Error{Message: "audit engine failed", Cause: err}
	}

	st := store.Build(result)
	o.log.Info("audit complete",
		zap.Int("selectors", st.Len()),
		zap.Int("overwritten", st.Overwritten()),
		zap.Int("skipped", len(st.Skipped())))
	for _, sk := range st.Skipped() {
		o.log.Debug("node not overlaid",
			zap.String("rule", sk.RuleID),
			zap.String("target", sk.Target),
			zap.String("reason", sk.Reason))
	}

	o.store = st
	o.tooltip = NewTooltipManager(o.page, st, o.log, o.newID)

	markers, err := NewMarkerLayer(o.page, o.log, o.newID).PaintAll(ctx, st)
	o.markers = markers
	if err != nil {
		return fmt.Errorf("failed to paint markers: %w", err)
	}

	if err := o.page.ListenKey(ctx, EscapeKey, dom.Close()); err != nil {
		return fmt.Errorf("failed to register %s listener: %w", EscapeKey, err)
	}
	return nil
}

// Dispatch applies one user event to the tooltip.
func (o *Overlay) Dispatch(ctx context.Context, ev dom.Event) error {
	if o.tooltip == nil {
		return fmt.Errorf("overlay not bootstrapped")
	}
	switch ev.Kind {
	case dom.EventOpen:
		return o.tooltip.Open(ctx, ev.Selector)
	case dom.EventClose:
		return o.tooltip.Close(ctx)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

// Serve dispatches events one at a time until the channel closes or ctx is
// done. Dispatch errors are logged and do not stop the loop.
func (o *Overlay) Serve(ctx context.Context, events <-chan dom.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := o.Dispatch(ctx, ev); err != nil {
				o.log.Error("event failed",
					zap.String("kind", string(ev.Kind)),
					zap.String("selector", ev.Selector),
					zap.Error(err))
			}
		}
	}
}

// Store returns the violation store, or nil before Bootstrap.
func (o *Overlay) Store() *store.Store {
	return o.store
}

// Markers returns the painted markers.
func (o *Overlay) Markers() []Marker {
	return append([]Marker(nil), o.markers...)
}

// Tooltip returns the tooltip manager, or nil before Bootstrap.
func (o *Overlay) Tooltip() *TooltipManager {
	return o.tooltip
}
