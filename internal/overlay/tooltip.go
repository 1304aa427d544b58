package overlay

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/geometry"
	"github.com/jonathan/billie/internal/store"
	"go.uber.org/zap"
)

// Tooltip is the handle of the live tooltip.
type Tooltip struct {
	ID        string
	CloseID   string
	Selector  string
	Placement Placement
}

// TooltipManager owns the single tooltip slot. At most one tooltip exists at
// any time; opening a new one removes the current one first.
type TooltipManager struct {
	page    Page
	store   *store.Store
	log     *zap.Logger
	newID   func() string
	current *Tooltip
}

// NewTooltipManager creates a manager reading records from st.
func NewTooltipManager(page Page, st *store.Store, log *zap.Logger, newID func() string) *TooltipManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &TooltipManager{page: page, store: st, log: log, newID: newID}
}

// Current returns the open tooltip, if any.
func (m *TooltipManager) Current() (Tooltip, bool) {
	if m.current == nil {
		return Tooltip{}, false
	}
	return *m.current, true
}

// Open shows the tooltip for selector, replacing any open tooltip. Opening
// the selector that is already shown re-renders it.
//
// If the element has disappeared since its marker was painted, the tooltip
// is not shown and Open returns nil with the manager closed.
func (m *TooltipManager) Open(ctx context.Context, selector string) error {
	if err := m.Close(ctx); err != nil {
		return err
	}

	rec, ok := m.store.Get(selector)
	if !ok {
		return &InvariantError{Selector: selector, Message: "no violation record for marker"}
	}

	rect, err := m.page.Measure(ctx, selector)
	if err != nil {
		if errors.Is(err, geometry.ErrNotFound) {
			m.log.Warn("tooltip target vanished", zap.String("selector", selector))
			return nil
		}
		return fmt.Errorf("failed to measure %s: %w", selector, err)
	}

	vp, err := m.page.Viewport(ctx)
	if err != nil {
		return fmt.Errorf("failed to read viewport: %w", err)
	}

	tip := &Tooltip{
		ID:        m.newID(),
		CloseID:   m.newID(),
		Selector:  selector,
		Placement: Place(rect, vp),
	}

	if err := m.page.Append(ctx, buildTooltip(tip.ID, tip.CloseID, rec, tip.Placement)); err != nil {
		return fmt.Errorf("failed to append tooltip for %s: %w", selector, err)
	}
	m.current = tip

	if err := m.page.Bind(ctx, tip.CloseID, dom.Close()); err != nil {
		return fmt.Errorf("failed to bind tooltip close control: %w", err)
	}

	m.log.Debug("opened tooltip",
		zap.String("selector", selector),
		zap.String("anchor", string(tip.Placement.Anchor)))
	return nil
}

// Close removes the open tooltip. Closing when nothing is open does nothing.
func (m *TooltipManager) Close(ctx context.Context) error {
	if m.current == nil {
		return nil
	}
	if err := m.page.Remove(ctx, m.current.ID); err != nil {
		return fmt.Errorf("failed to remove tooltip: %w", err)
	}
	m.log.Debug("closed tooltip", zap.String("selector", m.current.Selector))
	m.current = nil
	return nil
}
