package dom

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/billie/internal/geometry"
)

// Document is an in-memory HTML page. Element boxes come from a recorded
// layout; clicks and key presses are simulated by the caller.
type Document struct {
	doc    *goquery.Document
	layout *geometry.Layout
	clicks map[string]Event
	keys   map[string][]Event
}

// NewDocument parses HTML and pairs it with the layout it was captured with.
func NewDocument(r io.Reader, layout *geometry.Layout) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if layout == nil {
		layout = geometry.NewLayout(geometry.Viewport{})
	}
	return &Document{
		doc:    doc,
		layout: layout,
		clicks: make(map[string]Event),
		keys:   make(map[string][]Event),
	}, nil
}

// NewDocumentFromString is NewDocument for an HTML string.
func NewDocumentFromString(src string, layout *geometry.Layout) (*Document, error) {
	return NewDocument(strings.NewReader(src), layout)
}

// Measure resolves a selector against the document. The element must exist
// in the markup and have a recorded box.
func (d *Document) Measure(ctx context.Context, selector string) (geometry.Rect, error) {
	if d.doc.Find(selector).Length() == 0 {
		return geometry.Rect{}, geometry.NotFound(selector)
	}
	return d.layout.Measure(ctx, selector)
}

// Viewport returns the recorded viewport and scroll position.
func (d *Document) Viewport(_ context.Context) (geometry.Viewport, error) {
	return d.layout.Viewport, nil
}

// SetScroll moves the simulated scroll position.
func (d *Document) SetScroll(s geometry.Scroll) {
	d.layout.Viewport.Scroll = s
}

// Append adds an element at the end of the body.
func (d *Document) Append(_ context.Context, el *Element) error {
	body := d.doc.Find("body")
	if body.Length() == 0 {
		return fmt.Errorf("document has no body")
	}
	body.First().AppendNodes(el.Node())
	return nil
}

// Remove deletes the element with the given overlay id along with any
// click bindings inside it. Removing a missing element is a no-op.
func (d *Document) Remove(_ context.Context, id string) error {
	sel := d.byID(id)
	sel.Find("[" + IDAttr + "]").Each(func(_ int, s *goquery.Selection) {
		if childID, ok := s.Attr(IDAttr); ok {
			delete(d.clicks, childID)
		}
	})
	delete(d.clicks, id)
	sel.Remove()
	return nil
}

// Bind registers the event emitted when the element is clicked.
func (d *Document) Bind(_ context.Context, id string, ev Event) error {
	if d.byID(id).Length() == 0 {
		return fmt.Errorf("cannot bind click: no element with id %s", id)
	}
	d.clicks[id] = ev
	return nil
}

// ListenKey registers the event emitted on keyup of key anywhere in the page.
func (d *Document) ListenKey(_ context.Context, key string, ev Event) error {
	d.keys[key] = append(d.keys[key], ev)
	return nil
}

// Click simulates a click on the first element matching selector. The event
// of the nearest bound element, walking up from the target, is returned.
func (d *Document) Click(selector string) (Event, bool) {
	for s := d.doc.Find(selector).First(); s.Length() > 0; s = s.Parent() {
		id, ok := s.Attr(IDAttr)
		if !ok {
			continue
		}
		if ev, ok := d.clicks[id]; ok {
			return ev, true
		}
	}
	return Event{}, false
}

// KeyUp simulates releasing a key and returns the events listeners emit.
func (d *Document) KeyUp(key string) []Event {
	return append([]Event(nil), d.keys[key]...)
}

// Find runs a CSS query against the document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// StylesheetAttr marks the overlay's style element. The live page runtime
// tags its injected stylesheet the same way.
const StylesheetAttr = "data-billie"

// AddStylesheet appends the overlay style element to the head unless the
// page already carries one.
func (d *Document) AddStylesheet(css string) {
	if d.doc.Find("style[" + StylesheetAttr + "]").Length() > 0 {
		return
	}
	style := New("style").Attr(StylesheetAttr, "styles").SetText(css)
	head := d.doc.Find("head")
	if head.Length() == 0 {
		d.doc.Find("html").PrependNodes(New("head").Append(style).Node())
		return
	}
	head.First().AppendNodes(style.Node())
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

func (d *Document) byID(id string) *goquery.Selection {
	return d.doc.Find(fmt.Sprintf(`[%s=%q]`, IDAttr, id))
}
