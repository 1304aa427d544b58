package overlay

import (
	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/types"
)

// iconPaths holds the SVG path data drawn for each impact.
var iconPaths = map[types.Impact][]string{
	types.ImpactMinor: {
		"M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20z",
		"M11 10h2v7h-2zM11 6h2v2h-2z",
	},
	types.ImpactModerate: {
		"M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20z",
		"M11 6h2v8h-2zM11 16h2v2h-2z",
	},
	types.ImpactSerious: {
		"M12 2L1 21h22L12 2z",
		"M11 9h2v6h-2zM11 17h2v2h-2z",
	},
	types.ImpactCritical: {
		"M7.86 2h8.28L22 7.86v8.28L16.14 22H7.86L2 16.14V7.86z",
		"M11 6h2v8h-2zM11 16h2v2h-2z",
	},
}

// icon renders the severity glyph shown next to the violation message.
func icon(impact types.Impact) *dom.Element {
	svg := &dom.Element{Tag: "svg", Namespace: "svg"}
	svg.Attr("viewBox", "0 0 24 24").
		Attr("width", "20").
		Attr("height", "20").
		Attr("aria-hidden", "true")
	for i, d := range iconPaths[impact] {
		path := &dom.Element{Tag: "path", Namespace: "svg"}
		path.Attr("d", d)
		if i > 0 {
			path.Attr("fill", "#fff")
		} else {
			path.Attr("fill", "currentColor")
		}
		svg.Append(path)
	}

	return dom.New("span").
		Class("billie--icon", "billie--icon--"+string(impact)).
		Attr("title", string(impact)).
		Append(svg)
}
