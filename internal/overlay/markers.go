package overlay

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/geometry"
	"github.com/jonathan/billie/internal/store"
	"github.com/jonathan/billie/internal/types"
	"go.uber.org/zap"
)

// Marker is a painted overlay box. Rect is in document coordinates.
type Marker struct {
	ID       string
	Selector string
	Impact   types.Impact
	Rect     geometry.Rect
}

// MarkerLayer paints one marker per store entry.
type MarkerLayer struct {
	page  Page
	log   *zap.Logger
	newID func() string
}

// NewMarkerLayer creates a marker layer drawing on page.
func NewMarkerLayer(page Page, log *zap.Logger, newID func() string) *MarkerLayer {
	if log == nil {
		log = zap.NewNop()
	}
	return &MarkerLayer{page: page, log: log, newID: newID}
}

// PaintAll paints a marker over every selector in the store, in insertion
// order. Selectors whose element is gone are skipped; painting continues
// with the rest. Each marker's click opens the tooltip for its selector.
func (m *MarkerLayer) PaintAll(ctx context.Context, st *store.Store) ([]Marker, error) {
	markers := make([]Marker, 0, st.Len())
	for _, rec := range st.Records() {
		marker, err := m.paint(ctx, rec)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return markers, ctxErr
			}
			var geomErr *geometry.Error
			if errors.As(err, &geomErr) {
				m.log.Debug("skipping marker",
					zap.String("selector", rec.Selector),
					zap.Error(err))
				continue
			}
			return markers, err
		}
		markers = append(markers, marker)
	}

	m.log.Info("painted markers",
		zap.Int("painted", len(markers)),
		zap.Int("skipped", st.Len()-len(markers)))
	return markers, nil
}

func (m *MarkerLayer) paint(ctx context.Context, rec types.ViolationRecord) (Marker, error) {
	rect, err := m.page.Measure(ctx, rec.Selector)
	if err != nil {
		var geomErr *geometry.Error
		if errors.As(err, &geomErr) {
			return Marker{}, err
		}
		return Marker{}, &geometry.Error{Selector: rec.Selector, Message: "measure failed", Cause: err}
	}

	vp, err := m.page.Viewport(ctx)
	if err != nil {
		return Marker{}, fmt.Errorf("failed to read viewport: %w", err)
	}

	marker := Marker{
		ID:       m.newID(),
		Selector: rec.Selector,
		Impact:   rec.Impact,
		Rect:     rect.ToDocument(vp.Scroll),
	}

	if err := m.page.Append(ctx, buildMarker(marker.ID, rec, marker.Rect)); err != nil {
		return Marker{}, fmt.Errorf("failed to append marker for %s: %w", rec.Selector, err)
	}
	if err := m.page.Bind(ctx, marker.ID, dom.Open(rec.Selector)); err != nil {
		return Marker{}, fmt.Errorf("failed to bind marker for %s: %w", rec.Selector, err)
	}
	return marker, nil
}
