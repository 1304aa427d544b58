// Package overlay paints accessibility violation markers on a page and
// manages the single detail tooltip opened from them.
package overlay

import (
	"context"
	"fmt"

	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/geometry"
)

// EscapeKey is the key whose release closes the tooltip.
const EscapeKey = "Escape"

// Page is the rendering surface the overlay draws on. A live browser tab and
// the in-memory dom.Document both implement it.
type Page interface {
	geometry.Resolver

	// Viewport samples the current viewport width and scroll offsets.
	Viewport(ctx context.Context) (geometry.Viewport, error)
	// Append adds an element to the end of the document body.
	Append(ctx context.Context, el *dom.Element) error
	// Remove deletes the element with the given overlay id.
	Remove(ctx context.Context, id string) error
	// Bind makes a click on the element emit ev.
	Bind(ctx context.Context, id string, ev dom.Event) error
	// ListenKey makes a keyup of key anywhere in the page emit ev.
	ListenKey(ctx context.Context, key string, ev dom.Event) error
}

// InvariantError reports a state the overlay should never reach, such as a
// marker whose selector is missing from the store.
type InvariantError struct {
	Selector string
	Message  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("overlay invariant violated for %q: %s", e.Selector, e.Message)
}
