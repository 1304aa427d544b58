// Package schemas holds the JSON Schemas for documents billie reads from
// the audit engine and from captured snapshots.
package schemas

import _ "embed"

// AuditResult is the schema for the audit engine's violation report.
//
//go:embed audit_result.schema.json
var AuditResult []byte

// Layout is the schema for layout.json written by capture.
//
//go:embed layout.schema.json
var Layout []byte
