// Package geometry resolves page elements to bounding boxes and converts
// between viewport and document coordinates.
package geometry

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a selector matches no element on the page.
var ErrNotFound = errors.New("no element matches selector")

// Error represents a failure resolving the geometry of a selector.
type Error struct {
	Selector string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("geometry error for %q: %s: %v", e.Selector, e.Message, e.Cause)
	}
	return fmt.Sprintf("geometry error for %q: %s", e.Selector, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NotFound builds the error returned for a selector without a live element.
func NotFound(selector string) error {
	return &Error{Selector: selector, Message: "element not found", Cause: ErrNotFound}
}

// Rect is an element's bounding box. Top and Left are viewport-relative when
// returned by a Resolver.
type Rect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
}

// Scroll holds the page scroll offsets (pageXOffset, pageYOffset).
type Scroll struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport describes the visible area and its current scroll position.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scroll Scroll  `json:"scroll"`
}

// ToDocument shifts a viewport-relative rect into document coordinates.
func (r Rect) ToDocument(s Scroll) Rect {
	r.Top += s.Y
	r.Left += s.X
	return r
}

// Resolver measures elements by CSS selector. Implementations return
// viewport-relative boxes and an error wrapping ErrNotFound when nothing matches.
type Resolver interface {
	Measure(ctx context.Context, selector string) (Rect, error)
}
