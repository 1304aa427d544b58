package overlay

import (
	"fmt"
	"testing"

	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/geometry"
	"github.com/jonathan/billie/internal/types"
	"github.com/stretchr/testify/require"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head><title>Fixture</title></head>
<body>
	<header><img class="logo" src="logo.png"></header>
	<main>
		<button id="save"></button>
		<input id="email" type="text">
		<a class="promo" href="#">Sale</a>
	</main>
</body>
</html>`

func fixtureLayout() *geometry.Layout {
	l := geometry.NewLayout(geometry.Viewport{Width: 1000, Height: 800})
	l.Set("img.logo", geometry.Rect{Width: 120, Height: 40, Top: 10, Left: 20})
	l.Set("#save", geometry.Rect{Width: 100, Height: 30, Top: 200, Left: 850})
	l.Set("#email", geometry.Rect{Width: 240, Height: 24, Top: 260, Left: 100})
	l.Set("a.promo", geometry.Rect{Width: 60, Height: 18, Top: 300, Left: 400})
	return l
}

func fixtureAudit() *types.AuditResult {
	return &types.AuditResult{
		URL: "https://example.com/",
		Violations: []types.RuleViolation{
			{
				ID:     "image-alt",
				Help:   "Images must have alternate text",
				Impact: types.ImpactCritical,
				Nodes: []types.NodeResult{{
					Target: types.NewTarget("img.logo"),
					Any:    []types.CheckResult{{Message: "Element does not have an alt attribute"}},
					None:   []types.CheckResult{{Message: "Element's default semantics were not overridden with role=\"none\""}},
				}},
			},
			{
				ID:     "button-name",
				Help:   "Buttons must have discernible text",
				Impact: types.ImpactSerious,
				Nodes: []types.NodeResult{{
					Target: types.NewTarget("#save"),
					Any:    []types.CheckResult{{Message: "Element does not have inner text"}},
				}},
			},
			{
				ID:     "label",
				Help:   "Form elements must have labels",
				Impact: types.ImpactModerate,
				Nodes: []types.NodeResult{{
					Target: types.NewTarget("#email"),
					All:    []types.CheckResult{{Message: "Form element does not have an implicit label"}},
				}},
			},
			{
				ID:     "ghost",
				Help:   "Element removed before paint",
				Impact: types.ImpactMinor,
				Nodes:  []types.NodeResult{{Target: types.NewTarget("#gone")}},
			},
		},
	}
}

func newFixtureDocument(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.NewDocumentFromString(fixturePage, fixtureLayout())
	require.NoError(t, err)
	return doc
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("billie-%d", n)
	}
}
