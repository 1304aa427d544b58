package overlay

import (
	"fmt"

	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/geometry"
	"github.com/jonathan/billie/internal/types"
)

const (
	markerClass  = "billie--alert"
	tooltipClass = "billie--tooltip"
)

// fixGroup is one satisfaction mode with its hint line.
type fixGroup struct {
	Mode   string
	Hint   string
	Checks []types.CheckResult
}

// fixGroups returns the non-empty check groups in the order any, all, none.
// "none" checks must all be fixed, so they share the "all" hint.
func fixGroups(rec types.ViolationRecord) []fixGroup {
	candidates := []fixGroup{
		{Mode: "any", Hint: "Fix any of the following:", Checks: rec.Any},
		{Mode: "all", Hint: "Fix all of the following:", Checks: rec.All},
		{Mode: "none", Hint: "Fix all of the following:", Checks: rec.None},
	}
	groups := make([]fixGroup, 0, len(candidates))
	for _, g := range candidates {
		if len(g.Checks) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// Title is the tooltip heading for an impact.
func Title(impact types.Impact) string {
	return fmt.Sprintf("Accessibility %s Violation", impact.Title())
}

func buildMarker(id string, rec types.ViolationRecord, box geometry.Rect) *dom.Element {
	el := dom.New("div").
		WithID(id).
		Class(markerClass, markerClass+"--"+string(rec.Impact)).
		Attr("data-selector", rec.Selector).
		Attr("role", "button").
		Attr("aria-label", Title(rec.Impact)+": "+rec.Message)
	el.Style("top", dom.Px(box.Top)).
		Style("left", dom.Px(box.Left)).
		Style("width", dom.Px(box.Width)).
		Style("height", dom.Px(box.Height))
	return el
}

func buildTooltip(id, closeID string, rec types.ViolationRecord, p Placement) *dom.Element {
	el := dom.New("div").
		WithID(id).
		Class(tooltipClass, tooltipClass+"--"+string(p.Anchor)).
		Attr("data-selector", rec.Selector).
		Attr("role", "dialog").
		Attr("aria-label", Title(rec.Impact))
	p.apply(el)

	el.Append(dom.New("p").Class(tooltipClass + "__title").SetText(Title(rec.Impact)))
	el.Append(dom.New("div").Class(tooltipClass+"__message").Append(
		icon(rec.Impact),
		dom.New("span").Class(tooltipClass+"__text").SetText(rec.Message),
	))

	for _, g := range fixGroups(rec) {
		el.Append(dom.New("p").
			Class(tooltipClass+"__hint", tooltipClass+"__hint--"+g.Mode).
			SetText(g.Hint))
		list := dom.New("ul").Class(tooltipClass + "__fixes")
		for _, c := range g.Checks {
			list.Append(dom.New("li").SetText(c.Message))
		}
		el.Append(list)
	}

	el.Append(dom.New("button").
		WithID(closeID).
		Class(tooltipClass+"__close").
		Attr("type", "button").
		Attr("aria-label", "Close").
		SetText("×"))
	return el
}
