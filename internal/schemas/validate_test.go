package schemas

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["selector", "impact"],
	"properties": {
		"selector": {"type": "string"},
		"impact": {"type": "string", "enum": ["minor", "moderate", "serious", "critical"]}
	}
}`

func compileTestSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := Compile("record", []byte(testSchema))
	require.NoError(t, err)
	return s
}

func TestValidate_Valid(t *testing.T) {
	s := compileTestSchema(t)
	assert.NoError(t, s.Validate([]byte(`{"selector": "#main", "impact": "serious"}`)))
}

func TestValidate_MissingField(t *testing.T) {
	s := compileTestSchema(t)

	err := s.Validate([]byte(`{"selector": "#main"}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Equal(t, "required", validationErr.Errors[0].Rule)
	assert.Contains(t, err.Error(), "document does not match record")
}

func TestValidate_WrongType(t *testing.T) {
	s := compileTestSchema(t)

	err := s.Validate([]byte(`{"selector": 12, "impact": "minor"}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "selector", validationErr.Errors[0].Field)
	assert.Equal(t, "invalid_type", validationErr.Errors[0].Rule)
}

func TestValidate_MalformedDocument(t *testing.T) {
	s := compileTestSchema(t)

	err := s.Validate([]byte(`{not json`))
	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, "record", docErr.Schema)
}

func TestValidate_Concurrent(t *testing.T) {
	s := compileTestSchema(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Validate([]byte(`{"selector": "a", "impact": "minor"}`)))
		}()
	}
	wg.Wait()
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", []byte(`{"type": 12}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "broken")
}

func TestValidateFile(t *testing.T) {
	s := compileTestSchema(t)
	dir := t.TempDir()

	content := `{"selector": "#a", "impact": "critical"}`
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	data, err := s.ValidateFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"selector": "#a"}`), 0644))
	data, err = s.ValidateFile(bad)
	assert.Nil(t, data)
	assert.True(t, IsDocumentError(err))

	_, err = s.ValidateFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
	assert.False(t, IsDocumentError(err))
}

func TestValidateBytes_RejectsEnumValue(t *testing.T) {
	err := ValidateBytes([]byte(testSchema), []byte(`{"selector": "#a", "impact": "blocker"}`))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "impact", validationErr.Errors[0].Field)
	assert.Equal(t, "enum", validationErr.Errors[0].Rule)
}
