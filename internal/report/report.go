// Package report renders the outcome of an audit in the formats the CLI supports.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/billie/internal/observability"
	"github.com/jonathan/billie/internal/store"
	"github.com/jonathan/billie/internal/types"
	"gopkg.in/yaml.v3"
)

// Format selects how a report is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (expected text, json, or yaml)", s)
}

// Report summarizes the violations found on one page.
type Report struct {
	URL         string                  `json:"url" yaml:"url"`
	Records     []types.ViolationRecord `json:"records" yaml:"records"`
	Counts      map[types.Impact]int    `json:"counts" yaml:"counts"`
	Overwritten int                     `json:"overwritten,omitempty" yaml:"overwritten,omitempty"`
	// Superseded lists the records replaced by a later rule on the same selector.
	Superseded []types.ViolationRecord `json:"superseded,omitempty" yaml:"superseded,omitempty"`
	Skipped    []store.Skipped         `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	st *store.Store
}

// FromStore builds a report for url from a violation store.
func FromStore(url string, st *store.Store) *Report {
	var superseded []types.ViolationRecord
	for _, sel := range st.Selectors() {
		if all := st.All(sel); len(all) > 1 {
			superseded = append(superseded, all[:len(all)-1]...)
		}
	}
	return &Report{
		URL:         url,
		Records:     st.Records(),
		Counts:      st.Counts(),
		Overwritten: st.Overwritten(),
		Superseded:  superseded,
		Skipped:     st.Skipped(),
		st:          st,
	}
}

// Failing returns the number of records at or above threshold. An empty
// threshold never fails, nor does a report not built from a store.
func (r *Report) Failing(threshold types.Impact) int {
	if threshold == "" || r.st == nil {
		return 0
	}
	return len(r.st.AtLeast(threshold))
}

// Write renders reports to w. JSON and YAML emit a list so that multi-page
// audits produce a single document.
func Write(w io.Writer, format Format, reports []*Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
	case FormatText, "":
		p := observability.NewPrinter(w)
		for _, r := range reports {
			p.PrintViolations(r.URL, r.Records, r.Counts, r.Skipped)
			if len(r.Superseded) > 0 {
				p.PrintSuperseded(r.Superseded)
			}
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
