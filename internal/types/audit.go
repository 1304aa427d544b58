package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AuditResult is the subset of the audit engine's output that billie consumes.
type AuditResult struct {
	URL        string          `json:"url,omitempty"`
	Violations []RuleViolation `json:"violations"`
}

// RuleViolation is one failed rule and every node it failed on.
type RuleViolation struct {
	ID      string       `json:"id,omitempty"`
	Help    string       `json:"help"`
	HelpURL string       `json:"helpUrl,omitempty"`
	Impact  Impact       `json:"impact"`
	Tags    []string     `json:"tags,omitempty"`
	Nodes   []NodeResult `json:"nodes"`
}

// NodeResult is a single element affected by a rule, with its grouped checks.
type NodeResult struct {
	Target Target        `json:"target"`
	HTML   string        `json:"html,omitempty"`
	Any    []CheckResult `json:"any"`
	All    []CheckResult `json:"all"`
	None   []CheckResult `json:"none"`
}

// Target is the audit engine's element locator. Each entry of Path selects
// within the document of the previous one (iframe nesting). An entry given
// as a nested array addresses an element inside shadow roots; Shadow records
// that such an entry was present.
type Target struct {
	Path   []string
	Shadow bool

	raw json.RawMessage
}

// Selector returns the CSS selector usable against the top-level document.
// Only single-entry, non-shadow targets qualify.
func (t Target) Selector() (string, bool) {
	if t.Shadow || len(t.Path) != 1 || strings.TrimSpace(t.Path[0]) == "" {
		return "", false
	}
	return t.Path[0], true
}

// NewTarget builds a plain target from selector path entries.
func NewTarget(path ...string) Target {
	return Target{Path: path}
}

// String joins the path the way it is reported in logs.
func (t Target) String() string {
	return strings.Join(t.Path, " >> ")
}

// UnmarshalJSON accepts a string, an array of strings, or an array whose
// entries are themselves arrays of strings (shadow DOM paths).
func (t *Target) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = Target{Path: []string{single}, raw: append(json.RawMessage(nil), data...)}
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("target must be a string or an array: %w", err)
	}

	out := Target{Path: make([]string, 0, len(entries)), raw: append(json.RawMessage(nil), data...)}
	for _, raw := range entries {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out.Path = append(out.Path, s)
			continue
		}
		var shadow []string
		if err := json.Unmarshal(raw, &shadow); err != nil {
			return fmt.Errorf("target entry must be a string or an array of strings: %w", err)
		}
		out.Shadow = true
		out.Path = append(out.Path, strings.Join(shadow, " "))
	}
	*t = out
	return nil
}

// MarshalJSON writes the target back in the shape it was decoded from, or as
// an array of strings when it was built in code.
func (t Target) MarshalJSON() ([]byte, error) {
	if t.raw != nil {
		return t.raw, nil
	}
	if t.Path == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Path)
}
