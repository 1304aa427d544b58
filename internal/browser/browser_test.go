package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jonathan/billie/internal/dom"
	"github.com/jonathan/billie/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeScript_EmbedsNamesAndCSS(t *testing.T) {
	script := runtimeScript(".a{content:\"x\"}")
	assert.Contains(t, script, "window.__billie = {")
	assert.Contains(t, script, "window.__billieEmit(payload)")
	assert.Contains(t, script, `(".a{content:\"x\"}")`)
}

func TestAxeEngine_Options(t *testing.T) {
	e := NewAxeEngine(nil, "", nil, nil)
	assert.Equal(t, map[string]interface{}{"resultTypes": []string{"violations"}}, e.options())

	e = NewAxeEngine(nil, "", []string{"wcag2a", "wcag2aa"}, nil)
	runOnly, ok := e.options()["runOnly"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "tag", runOnly["type"])
	assert.Equal(t, []string{"wcag2a", "wcag2aa"}, runOnly["values"])
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.Headless)
	assert.Equal(t, DefaultTimeout, opts.Timeout)
	assert.Equal(t, 1280, opts.ViewportWidth)
}

// requireChrome skips tests that need a local Chrome unless explicitly enabled.
func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() || os.Getenv("BILLIE_CHROME_TESTS") != "1" {
		t.Skip("set BILLIE_CHROME_TESTS=1 to run browser tests")
	}
}

func TestSession_PageOperations(t *testing.T) {
	requireChrome(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body style="margin:0"><div id="box" style="position:absolute;top:40px;left:30px;width:100px;height:50px"></div></body></html>`))
	}))
	defer server.Close()

	ctx := context.Background()
	b, err := Launch(ctx, nil, nil)
	require.NoError(t, err)
	defer b.Close()

	s, err := b.NewSession()
	require.NoError(t, err)
	require.NoError(t, s.Navigate(ctx, server.URL))

	r, err := s.Measure(ctx, "#box")
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect{Width: 100, Height: 50, Top: 40, Left: 30}, r)

	_, err = s.Measure(ctx, "#missing")
	assert.ErrorIs(t, err, geometry.ErrNotFound)

	el := dom.New("div").WithID("m1").Class("marker")
	require.NoError(t, s.Append(ctx, el))
	require.NoError(t, s.Bind(ctx, "m1", dom.Open("#box")))
	assert.Error(t, s.Bind(ctx, "nope", dom.Close()))
	require.NoError(t, s.Remove(ctx, "m1"))

	_, err = s.Measure(ctx, `[data-billie-id="m1"]`)
	assert.ErrorIs(t, err, geometry.ErrNotFound)

	layout, err := s.Snapshot(ctx, []string{"#box", "#missing"})
	require.NoError(t, err)
	assert.Len(t, layout.Rects, 1)
	assert.Greater(t, layout.Viewport.Width, 0.0)
}
