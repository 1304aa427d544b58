//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolationRecord_Validate(t *testing.T) {
	rec := ViolationRecord{
		Selector: "#main > img",
		Message:  "Images must have alternate text",
		Impact:   ImpactCritical,
	}
	assert.NoError(t, rec.Validate())

	rec.Impact = "blocker"
	assert.Error(t, rec.Validate())

	rec.Impact = ImpactMinor
	rec.Selector = ""
	assert.Error(t, rec.Validate())
}

func TestViolationRecord_FixCount(t *testing.T) {
	rec := ViolationRecord{
		Any:  []CheckResult{{Message: "a"}, {Message: "b"}},
		None: []CheckResult{{Message: "c"}},
	}
	assert.Equal(t, 3, rec.FixCount())
}

func TestTarget_UnmarshalVariants(t *testing.T) {
	var single Target
	require.NoError(t, json.Unmarshal([]byte(`"#a"`), &single))
	sel, ok := single.Selector()
	assert.True(t, ok)
	assert.Equal(t, "#a", sel)

	var list Target
	require.NoError(t, json.Unmarshal([]byte(`["main .card"]`), &list))
	sel, ok = list.Selector()
	assert.True(t, ok)
	assert.Equal(t, "main .card", sel)

	var frame Target
	require.NoError(t, json.Unmarshal([]byte(`["iframe", "#b"]`), &frame))
	_, ok = frame.Selector()
	assert.False(t, ok)
	assert.Equal(t, "iframe >> #b", frame.String())

	var shadow Target
	require.NoError(t, json.Unmarshal([]byte(`[["my-app", "button"]]`), &shadow))
	assert.True(t, shadow.Shadow)
	_, ok = shadow.Selector()
	assert.False(t, ok)
}

func TestTarget_UnmarshalRejectsObjects(t *testing.T) {
	var target Target
	assert.Error(t, json.Unmarshal([]byte(`{"selector": "#a"}`), &target))
	assert.Error(t, json.Unmarshal([]byte(`[{"selector": "#a"}]`), &target))
}

func TestTarget_MarshalKeepsShape(t *testing.T) {
	var shadow Target
	require.NoError(t, json.Unmarshal([]byte(`[["my-app","button"]]`), &shadow))
	out, err := json.Marshal(shadow)
	require.NoError(t, err)
	assert.JSONEq(t, `[["my-app","button"]]`, string(out))

	out, err = json.Marshal(NewTarget("#x"))
	require.NoError(t, err)
	assert.JSONEq(t, `["#x"]`, string(out))
}

func TestImpact_ParseAndOrder(t *testing.T) {
	impact, err := ParseImpact(" Serious ")
	require.NoError(t, err)
	assert.Equal(t, ImpactSerious, impact)

	_, err = ParseImpact("severe")
	assert.Error(t, err)

	assert.True(t, ImpactCritical.AtLeast(ImpactSerious))
	assert.True(t, ImpactModerate.AtLeast(ImpactModerate))
	assert.False(t, ImpactMinor.AtLeast(ImpactModerate))
	assert.False(t, Impact("").Valid())
}

func TestImpact_Title(t *testing.T) {
	assert.Equal(t, "Minor", ImpactMinor.Title())
	assert.Equal(t, "Critical", ImpactCritical.Title())
	assert.Equal(t, "", Impact("").Title())
}
