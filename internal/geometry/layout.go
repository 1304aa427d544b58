package geometry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/billie/internal/schemas"
	rootschemas "github.com/jonathan/billie/schemas"
)

// Layout is a recorded set of element boxes plus the viewport they were
// measured in. It serves as a Resolver for pages that are no longer live.
type Layout struct {
	Viewport Viewport        `json:"viewport"`
	Rects    map[string]Rect `json:"rects"`
}

// NewLayout creates an empty layout for the given viewport.
func NewLayout(vp Viewport) *Layout {
	return &Layout{Viewport: vp, Rects: make(map[string]Rect)}
}

// Set records the box for a selector.
func (l *Layout) Set(selector string, r Rect) {
	if l.Rects == nil {
		l.Rects = make(map[string]Rect)
	}
	l.Rects[selector] = r
}

// Measure implements Resolver.
func (l *Layout) Measure(_ context.Context, selector string) (Rect, error) {
	r, ok := l.Rects[selector]
	if !ok {
		return Rect{}, NotFound(selector)
	}
	return r, nil
}

// LoadLayout reads a layout from a JSON file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file %s: %w", path, err)
	}
	if err := schemas.ValidateBytes(rootschemas.Layout, data); err != nil {
		return nil, fmt.Errorf("layout file %s is invalid: %w", path, err)
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout JSON: %w", err)
	}
	if l.Rects == nil {
		l.Rects = make(map[string]Rect)
	}
	return &l, nil
}

// Save writes the layout as indented JSON.
func (l *Layout) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file %s: %w", path, err)
	}
	return nil
}
