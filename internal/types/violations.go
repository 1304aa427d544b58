// Package types provides type definitions for the audit results and violation records shared across billie.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// CheckResult is a single remediation hint reported by the audit engine.
type CheckResult struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// ViolationRecord is the flattened view of one rule violation on one element.
// Selector is the primary key in the violation store.
type ViolationRecord struct {
	Selector string        `json:"selector" yaml:"selector" validate:"required"`
	RuleID   string        `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	Message  string        `json:"message" yaml:"message" validate:"required"`
	HelpURL  string        `json:"help_url,omitempty" yaml:"help_url,omitempty" validate:"omitempty,url"`
	Impact   Impact        `json:"impact" yaml:"impact" validate:"required,oneof=minor moderate serious critical"`
	Any      []CheckResult `json:"any,omitempty" yaml:"any,omitempty"`
	All      []CheckResult `json:"all,omitempty" yaml:"all,omitempty"`
	None     []CheckResult `json:"none,omitempty" yaml:"none,omitempty"`
}

var validate = validator.New()

// Validate validates the ViolationRecord using the validator.
func (r *ViolationRecord) Validate() error {
	return validate.Struct(r)
}

// FixCount returns the total number of remediation hints across all groups.
func (r *ViolationRecord) FixCount() int {
	return len(r.Any) + len(r.All) + len(r.None)
}
