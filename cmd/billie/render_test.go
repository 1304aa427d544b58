package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/billie/internal/config"
	"github.com/jonathan/billie/internal/geometry"
	"github.com/jonathan/billie/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const capturedAudit = `{
  "url": "https://example.com/",
  "violations": [
    {
      "id": "image-alt",
      "help": "Images must have alternate text",
      "impact": "critical",
      "nodes": [
        {"target": ["img.logo"], "any": [{"id": "has-alt", "message": "Element does not have an alt attribute"}], "all": [], "none": []},
        {"target": ["iframe#ads", "img"], "any": [], "all": [], "none": []}
      ]
    },
    {
      "id": "button-name",
      "help": "Buttons must have discernible text",
      "impact": "serious",
      "nodes": [
        {"target": ["#save"], "any": [{"message": "Element does not have inner text"}], "all": [], "none": []}
      ]
    }
  ]
}`

const capturedPage = `<html><head><title>Captured</title></head><body>
<img class="logo" src="logo.png">
<button id="save"></button>
</body></html>`

func writeCapture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	layout := geometry.NewLayout(geometry.Viewport{Width: 1000, Height: 800, Scroll: geometry.Scroll{Y: 50}})
	layout.Set("img.logo", geometry.Rect{Width: 120, Height: 40, Top: 10, Left: 20})
	layout.Set("#save", geometry.Rect{Width: 100, Height: 30, Top: 200, Left: 850})
	require.NoError(t, layout.Save(filepath.Join(dir, layoutFile)))

	require.NoError(t, os.WriteFile(filepath.Join(dir, auditFile), []byte(capturedAudit), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, pageFile), []byte(capturedPage), 0644))
	return dir
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRenderCapture_PaintsMarkers(t *testing.T) {
	dir := writeCapture(t)

	html, err := renderCapture(context.Background(), dir, "", zap.NewNop())
	require.NoError(t, err)

	doc := parse(t, html)
	markers := doc.Find("div.billie--alert")
	require.Equal(t, 2, markers.Length())

	sel, _ := markers.Eq(0).Attr("data-selector")
	assert.Equal(t, "img.logo", sel)
	assert.True(t, markers.Eq(0).HasClass("billie--alert--critical"))
	assert.True(t, markers.Eq(1).HasClass("billie--alert--serious"))

	assert.Equal(t, 0, doc.Find("div.billie--tooltip").Length())
	assert.Equal(t, 1, doc.Find("head style").Length())
}

func TestRenderCapture_KeepsCapturedStylesheet(t *testing.T) {
	dir := writeCapture(t)
	captured := `<html><head><style data-billie="styles">.billie--alert{}</style></head><body>
<img class="logo" src="logo.png">
<button id="save"></button>
</body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, pageFile), []byte(captured), 0644))

	html, err := renderCapture(context.Background(), dir, "", zap.NewNop())
	require.NoError(t, err)

	doc := parse(t, html)
	assert.Equal(t, 1, doc.Find("style").Length())
	assert.Equal(t, 2, doc.Find("div.billie--alert").Length())
}

func TestRenderCapture_InvalidLayout(t *testing.T) {
	dir := writeCapture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, layoutFile), []byte(`{"rects": {}}`), 0644))

	_, err := renderCapture(context.Background(), dir, "", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is invalid")
}

func TestRenderCapture_OpensTooltip(t *testing.T) {
	dir := writeCapture(t)

	html, err := renderCapture(context.Background(), dir, "#save", zap.NewNop())
	require.NoError(t, err)

	doc := parse(t, html)
	tooltips := doc.Find("div.billie--tooltip")
	require.Equal(t, 1, tooltips.Length())
	assert.True(t, tooltips.HasClass("billie--tooltip--right"))
	assert.Contains(t, tooltips.Text(), "Accessibility Serious Violation")
	assert.Contains(t, tooltips.Text(), "Element does not have inner text")
}

func TestRenderCapture_UnknownSelector(t *testing.T) {
	dir := writeCapture(t)

	_, err := renderCapture(context.Background(), dir, "#nope", zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "#nope")
}

func TestRenderCapture_MissingFiles(t *testing.T) {
	_, err := renderCapture(context.Background(), t.TempDir(), "", zap.NewNop())
	assert.Error(t, err)
}

func TestViolationsFoundError(t *testing.T) {
	err := &violationsFoundError{Count: 3, Threshold: "serious"}
	assert.Equal(t, "3 violations at or above serious impact", err.Error())
}

func TestFailOn(t *testing.T) {
	cfg := config.Default()
	threshold, err := failOn(&cfg)
	require.NoError(t, err)
	assert.Equal(t, types.Impact(""), threshold)

	cfg.FailOn = "Serious"
	threshold, err = failOn(&cfg)
	require.NoError(t, err)
	assert.Equal(t, types.ImpactSerious, threshold)
}
