// Package store holds the selector-keyed violation records built from an audit.
package store

import (
	"github.com/jonathan/billie/internal/types"
)

// Skipped describes an affected node that was left out of the store: its
// target has no top-level selector or its record is invalid.
type Skipped struct {
	RuleID string `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	Target string `json:"target" yaml:"target"`
	Reason string `json:"reason" yaml:"reason"`
}

// Store maps CSS selectors to violation records. It is built once and is
// read-only afterwards.
type Store struct {
	order   []string
	records map[string]types.ViolationRecord
	history map[string][]types.ViolationRecord
	skipped []Skipped
}

// Build flattens every (rule, node) pair of the audit result into one record
// keyed by the node's selector. Records that fail validation are skipped. When several rules hit the same selector the
// last one wins; its key keeps the position of the first insertion. Every
// record is still available through All.
func Build(result *types.AuditResult) *Store {
	s := &Store{
		records: make(map[string]types.ViolationRecord),
		history: make(map[string][]types.ViolationRecord),
	}
	if result == nil {
		return s
	}

	for _, rule := range result.Violations {
		for _, node := range rule.Nodes {
			selector, ok := node.Target.Selector()
			if !ok {
				s.skipped = append(s.skipped, Skipped{
					RuleID: rule.ID,
					Target: node.Target.String(),
					Reason: skipReason(node.Target),
				})
				continue
			}
			rec := types.ViolationRecord{
				Selector: selector,
				RuleID:   rule.ID,
				Message:  rule.Help,
				HelpURL:  rule.HelpURL,
				Impact:   rule.Impact,
				Any:      node.Any,
				All:      node.All,
				None:     node.None,
			}
			if err := rec.Validate(); err != nil {
				s.skipped = append(s.skipped, Skipped{
					RuleID: rule.ID,
					Target: node.Target.String(),
					Reason: "invalid record: " + err.Error(),
				})
				continue
			}
			s.put(rec)
		}
	}
	return s
}

func (s *Store) put(rec types.ViolationRecord) {
	if _, exists := s.records[rec.Selector]; !exists {
		s.order = append(s.order, rec.Selector)
	}
	s.records[rec.Selector] = rec
	s.history[rec.Selector] = append(s.history[rec.Selector], rec)
}

func skipReason(t types.Target) string {
	switch {
	case t.Shadow:
		return "shadow DOM target"
	case len(t.Path) > 1:
		return "nested frame target"
	default:
		return "empty target"
	}
}

// Get returns the record for selector.
func (s *Store) Get(selector string) (types.ViolationRecord, bool) {
	rec, ok := s.records[selector]
	return rec, ok
}

// All returns every record reported for selector in audit order, including
// the ones Get no longer returns.
func (s *Store) All(selector string) []types.ViolationRecord {
	return append([]types.ViolationRecord(nil), s.history[selector]...)
}

// Selectors returns the keys in insertion order.
func (s *Store) Selectors() []string {
	return append([]string(nil), s.order...)
}

// Records returns the current record of every selector in insertion order.
func (s *Store) Records() []types.ViolationRecord {
	out := make([]types.ViolationRecord, 0, len(s.order))
	for _, sel := range s.order {
		out = append(out, s.records[sel])
	}
	return out
}

// Len returns the number of distinct selectors.
func (s *Store) Len() int {
	return len(s.order)
}

// Overwritten returns how many records were replaced by a later rule on the same selector.
func (s *Store) Overwritten() int {
	n := 0
	for _, recs := range s.history {
		n += len(recs) - 1
	}
	return n
}

// Skipped returns the nodes that were left out of the store.
func (s *Store) Skipped() []Skipped {
	return append([]Skipped(nil), s.skipped...)
}

// Counts tallies the stored records by impact.
func (s *Store) Counts() map[types.Impact]int {
	counts := make(map[types.Impact]int, len(types.Impacts))
	for _, rec := range s.records {
		counts[rec.Impact]++
	}
	return counts
}

// AtLeast returns the records whose impact is min or more severe, in insertion order.
func (s *Store) AtLeast(min types.Impact) []types.ViolationRecord {
	var out []types.ViolationRecord
	for _, rec := range s.Records() {
		if rec.Impact.AtLeast(min) {
			out = append(out, rec)
		}
	}
	return out
}
