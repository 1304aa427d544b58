package schemas

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/billie/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditResultSchema_ValidJSON(t *testing.T) {
	var schemaObj map[string]interface{}
	err := json.Unmarshal(AuditResult, &schemaObj)
	require.NoError(t, err, "schema file should be valid JSON")

	_, hasSchema := schemaObj["$schema"]
	_, hasProps := schemaObj["properties"]
	assert.True(t, hasSchema && hasProps, "schema should declare $schema and properties")
}

func TestAuditResultSchema_AcceptsAxeOutput(t *testing.T) {
	doc := `{
		"url": "https://example.com/",
		"violations": [
			{
				"id": "image-alt",
				"help": "Images must have alternate text",
				"helpUrl": "https://dequeuniversity.com/rules/axe/4.10/image-alt",
				"impact": "critical",
				"tags": ["wcag2a"],
				"nodes": [
					{
						"target": ["img.hero"],
						"html": "<img class=\"hero\" src=\"a.png\">",
						"any": [{"id": "has-alt", "message": "Element does not have an alt attribute"}],
						"all": [],
						"none": [{"id": "presentation", "message": "Element's default semantics were not overridden"}]
					},
					{
						"target": [["my-app", "img"]],
						"any": [], "all": [], "none": []
					}
				]
			}
		]
	}`

	err := schemas.ValidateBytes(AuditResult, []byte(doc))
	assert.NoError(t, err)
}

func TestAuditResultSchema_RejectsUnknownImpact(t *testing.T) {
	doc := `{"violations": [{"help": "x", "impact": "severe", "nodes": []}]}`

	err := schemas.ValidateBytes(AuditResult, []byte(doc))
	require.Error(t, err)

	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestAuditResultSchema_RequiresViolations(t *testing.T) {
	err := schemas.ValidateBytes(AuditResult, []byte(`{"url": "https://example.com/"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "violations")
}

func TestLayoutSchema(t *testing.T) {
	valid := `{
		"viewport": {"width": 1280, "height": 800, "scroll": {"x": 0, "y": 120}},
		"rects": {"#save": {"width": 100, "height": 30, "top": 200, "left": 850}}
	}`
	assert.NoError(t, schemas.ValidateBytes(Layout, []byte(valid)))

	err := schemas.ValidateBytes(Layout, []byte(`{"viewport": {"width": 1280, "height": 800}, "rects": {"#a": {"width": 1}}}`))
	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = schemas.ValidateBytes(Layout, []byte(`{"rects": {}}`))
	assert.Error(t, err)
}
