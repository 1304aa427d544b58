package browser

import (
	"context"
	"encoding/json"
	"fmt"

	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/billie/internal/audit"
	"github.com/jonathan/billie/internal/types"
	"go.uber.org/zap"
)

// axeRunJS runs axe-core and reduces its result to the fields billie decodes.
// Violations without an impact are reported as minor.
const axeRunJS = `(function (opts) {
  var pick = function (checks) {
    return (checks || []).map(function (c) { return {id: c.id, message: c.message}; });
  };
  return window.axe.run(document, opts).then(function (r) {
    return JSON.stringify({
      url: r.url,
      violations: r.violations.map(function (v) {
        return {
          id: v.id,
          help: v.help,
          helpUrl: v.helpUrl,
          impact: v.impact || 'minor',
          tags: v.tags,
          nodes: v.nodes.map(function (n) {
            return {target: n.target, html: n.html, any: pick(n.any), all: pick(n.all), none: pick(n.none)};
          })
        };
      })
    });
  });
})(%s)`

// AxeEngine audits the page loaded in a session with axe-core.
type AxeEngine struct {
	session *Session
	source  string
	runOnly []string
	log     *zap.Logger
}

// NewAxeEngine creates an engine that injects source (the axe-core script)
// when the page does not already define axe. runOnly restricts the audit to
// rules carrying those tags.
func NewAxeEngine(session *Session, source string, runOnly []string, log *zap.Logger) *AxeEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &AxeEngine{session: session, source: source, runOnly: runOnly, log: log}
}

// Run implements audit.Engine.
func (e *AxeEngine) Run(ctx context.Context) (*types.AuditResult, error) {
	var present bool
	if err := e.session.run(ctx, chromedp.Evaluate("typeof window.axe !== 'undefined'", &present)); err != nil {
		return nil, &audit.Error{Message: "failed to probe for axe", Cause: err}
	}
	if !present {
		if e.source == "" {
			return nil, &audit.Error{Message: "axe is not loaded and no source was given"}
		}
		e.log.Debug("injecting axe-core", zap.Int("bytes", len(e.source)))
		if err := e.session.run(ctx, chromedp.Evaluate(e.source, nil)); err != nil {
			return nil, &audit.Error{Message: "failed to inject axe", Cause: err}
		}
	}

	opts, err := json.Marshal(e.options())
	if err != nil {
		return nil, fmt.Errorf("failed to encode axe options: %w", err)
	}

	var raw string
	awaitPromise := func(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}
	if err := e.session.run(ctx, chromedp.Evaluate(fmt.Sprintf(axeRunJS, opts), &raw, awaitPromise)); err != nil {
		return nil, &audit.Error{Message: "axe.run failed", Cause: err}
	}

	result, err := audit.Decode([]byte(raw))
	if err != nil {
		return nil, err
	}
	e.log.Info("axe audit finished",
		zap.String("url", result.URL),
		zap.Int("rules", len(result.Violations)))
	return result, nil
}

func (e *AxeEngine) options() map[string]interface{} {
	opts := map[string]interface{}{
		"resultTypes": []string{"violations"},
	}
	if len(e.runOnly) > 0 {
		opts["runOnly"] = map[string]interface{}{
			"type":   "tag",
			"values": e.runOnly,
		}
	}
	return opts
}
