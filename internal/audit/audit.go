// Package audit defines the accessibility audit engine boundary and decodes
// the engine's violation report.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jonathan/billie/internal/schemas"
	"github.com/jonathan/billie/internal/types"
	rootschemas "github.com/jonathan/billie/schemas"
)

// Engine runs an accessibility audit against a page and returns its violations.
type Engine interface {
	Run(ctx context.Context) (*types.AuditResult, error)
}

// Func adapts a function to the Engine interface.
type Func func(ctx context.Context) (*types.AuditResult, error)

// Run implements Engine.
func (f Func) Run(ctx context.Context) (*types.AuditResult, error) {
	return f(ctx)
}

// Static returns an engine that always reports result. Used for replaying
// captured audits.
func Static(result *types.AuditResult) Engine {
	return Func(func(ctx context.Context) (*types.AuditResult, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return result, nil
	})
}

// Error represents a failed or malformed audit.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("audit error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("audit error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// resultSchema is compiled on first use and shared by concurrent audits.
var resultSchema = sync.OnceValues(func() (*schemas.Schema, error) {
	return schemas.Compile("audit result schema", rootschemas.AuditResult)
})

// Decode validates raw engine output against the audit result schema and
// decodes it.
func Decode(data []byte) (*types.AuditResult, error) {
	schema, err := resultSchema()
	if err != nil {
		return nil, &Error{Message: "audit result schema is unusable", Cause: err}
	}
	if err := schema.Validate(data); err != nil {
		return nil, &Error{Message: "audit result does not match schema", Cause: err}
	}
	return unmarshal(data)
}

func unmarshal(data []byte) (*types.AuditResult, error) {
	var result types.AuditResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &Error{Message: "failed to decode audit result", Cause: err}
	}
	return &result, nil
}

// LoadFile reads and decodes an audit result saved as JSON.
func LoadFile(path string) (*types.AuditResult, error) {
	schema, err := resultSchema()
	if err != nil {
		return nil, &Error{Message: "audit result schema is unusable", Cause: err}
	}
	data, err := schema.ValidateFile(path)
	if err != nil {
		if schemas.IsDocumentError(err) {
			return nil, &Error{Message: fmt.Sprintf("audit file %s does not match schema", path), Cause: err}
		}
		return nil, &Error{Message: fmt.Sprintf("failed to read audit file %s", path), Cause: err}
	}
	return unmarshal(data)
}

// SaveFile writes an audit result as indented JSON.
func SaveFile(path string, result *types.AuditResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal audit result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write audit file %s: %w", path, err)
	}
	return nil
}
