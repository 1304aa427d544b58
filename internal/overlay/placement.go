package overlay

import (
	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/geometry"
)

const (
	// tooltipGap is the vertical space between the element and its tooltip.
	tooltipGap = 8
	// flipDistance is how close to the right edge an element must be before
	// the tooltip anchors to the right.
	flipDistance = 500
)

// Anchor is the horizontal edge a tooltip is pinned to.
type Anchor string

const (
	AnchorLeft  Anchor = "left"
	AnchorRight Anchor = "right"
)

// Placement is a tooltip position in document coordinates. Left is set for
// left-anchored tooltips and Right for right-anchored ones.
type Placement struct {
	Anchor Anchor
	Top    float64
	Left   float64
	Right  float64
}

// Place positions a tooltip below target. target is viewport-relative; the
// viewport supplies the width and the scroll offsets sampled at open time.
//
// The tooltip flips to the right edge only when the element is both closer to
// the right edge than to the left one and within flipDistance of it. Both
// comparisons use the viewport-relative left edge.
func Place(target geometry.Rect, vp geometry.Viewport) Placement {
	p := Placement{
		Anchor: AnchorLeft,
		Top:    target.Top + vp.Scroll.Y + tooltipGap + target.Height,
		Left:   target.Left + vp.Scroll.X,
	}

	distanceFromRight := vp.Width - target.Left
	if distanceFromRight < target.Left && distanceFromRight < flipDistance {
		p.Anchor = AnchorRight
		p.Left = 0
		p.Right = distanceFromRight - target.Width
	}
	return p
}

func (p Placement) apply(el *dom.Element) {
	el.Style("top", dom.Px(p.Top))
	if p.Anchor == AnchorRight {
		el.Style("right", dom.Px(p.Right))
		return
	}
	el.Style("left", dom.Px(p.Left))
}
