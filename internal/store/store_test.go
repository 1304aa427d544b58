package store

import (
	"testing"

	"github.com/jonathan/billie/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(selector string, checks ...string) types.NodeResult {
	n := types.NodeResult{Target: types.NewTarget(selector)}
	for _, c := range checks {
		n.Any = append(n.Any, types.CheckResult{Message: c})
	}
	return n
}

func TestBuild_FlattensRulesAndNodes(t *testing.T) {
	result := &types.AuditResult{
		Violations: []types.RuleViolation{
			{ID: "image-alt", Help: "Images must have alternate text", Impact: types.ImpactCritical,
				Nodes: []types.NodeResult{node("img.a", "no alt"), node("img.b", "no alt")}},
			{ID: "label", Help: "Form elements must have labels", Impact: types.ImpactSerious,
				Nodes: []types.NodeResult{node("#email")}},
		},
	}

	s := Build(result)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"img.a", "img.b", "#email"}, s.Selectors())

	rec, ok := s.Get("img.b")
	require.True(t, ok)
	assert.Equal(t, "Images must have alternate text", rec.Message)
	assert.Equal(t, types.ImpactCritical, rec.Impact)
	assert.Equal(t, "image-alt", rec.RuleID)
	assert.Equal(t, "no alt", rec.Any[0].Message)
}

func TestBuild_LastWriteWinsOnDuplicateSelector(t *testing.T) {
	result := &types.AuditResult{
		Violations: []types.RuleViolation{
			{ID: "first", Help: "First rule", Impact: types.ImpactMinor, Nodes: []types.NodeResult{node("#dup"), node("#other")}},
			{ID: "second", Help: "Second rule", Impact: types.ImpactCritical, Nodes: []types.NodeResult{node("#dup")}},
		},
	}

	s := Build(result)
	assert.Equal(t, 2, s.Len(), "each selector appears once")
	assert.Equal(t, []string{"#dup", "#other"}, s.Selectors(), "overwrite keeps the original position")

	rec, ok := s.Get("#dup")
	require.True(t, ok)
	assert.Equal(t, "Second rule", rec.Message)
	assert.Equal(t, types.ImpactCritical, rec.Impact)

	all := s.All("#dup")
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].RuleID)
	assert.Equal(t, "second", all[1].RuleID)
	assert.Equal(t, 1, s.Overwritten())
}

func TestBuild_SkipsFrameAndShadowTargets(t *testing.T) {
	result := &types.AuditResult{
		Violations: []types.RuleViolation{
			{ID: "frame", Help: "x", Impact: types.ImpactModerate, Nodes: []types.NodeResult{
				{Target: types.NewTarget("iframe", "#inner")},
				{Target: types.Target{Path: []string{"my-el #x"}, Shadow: true}},
				node("#ok"),
			}},
		},
	}

	s := Build(result)
	assert.Equal(t, []string{"#ok"}, s.Selectors())

	skipped := s.Skipped()
	require.Len(t, skipped, 2)
	assert.Equal(t, "nested frame target", skipped[0].Reason)
	assert.Equal(t, "iframe >> #inner", skipped[0].Target)
	assert.Equal(t, "shadow DOM target", skipped[1].Reason)
}

func TestBuild_SkipsInvalidRecords(t *testing.T) {
	result := &types.AuditResult{
		Violations: []types.RuleViolation{
			{ID: "no-help", Impact: types.ImpactSerious, Nodes: []types.NodeResult{node("#a")}},
			{ID: "bad-impact", Help: "x", Impact: types.Impact("blocker"), Nodes: []types.NodeResult{node("#b")}},
			{ID: "ok", Help: "fine", Impact: types.ImpactMinor, Nodes: []types.NodeResult{node("#c")}},
		},
	}

	s := Build(result)
	assert.Equal(t, []string{"#c"}, s.Selectors())

	skipped := s.Skipped()
	require.Len(t, skipped, 2)
	assert.Equal(t, "no-help", skipped[0].RuleID)
	assert.Equal(t, "#a", skipped[0].Target)
	assert.Contains(t, skipped[0].Reason, "invalid record")
	assert.Equal(t, "bad-impact", skipped[1].RuleID)
}

func TestBuild_NilResult(t *testing.T) {
	s := Build(nil)
	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("#anything")
	assert.False(t, ok)
}

func TestCountsAndAtLeast(t *testing.T) {
	result := &types.AuditResult{
		Violations: []types.RuleViolation{
			{Help: "a", Impact: types.ImpactMinor, Nodes: []types.NodeResult{node("#1"), node("#2")}},
			{Help: "b", Impact: types.ImpactSerious, Nodes: []types.NodeResult{node("#3")}},
			{Help: "c", Impact: types.ImpactCritical, Nodes: []types.NodeResult{node("#4")}},
		},
	}

	s := Build(result)
	counts := s.Counts()
	assert.Equal(t, 2, counts[types.ImpactMinor])
	assert.Equal(t, 0, counts[types.ImpactModerate])
	assert.Equal(t, 1, counts[types.ImpactSerious])
	assert.Equal(t, 1, counts[types.ImpactCritical])

	severe := s.AtLeast(types.ImpactSerious)
	require.Len(t, severe, 2)
	assert.Equal(t, "#3", severe[0].Selector)
	assert.Equal(t, "#4", severe[1].Selector)
}

func TestSelectors_ReturnsCopy(t *testing.T) {
	s := Build(&types.AuditResult{Violations: []types.RuleViolation{
		{Help: "a", Impact: types.ImpactMinor, Nodes: []types.NodeResult{node("#1")}},
	}})

	sels := s.Selectors()
	sels[0] = "mutated"
	assert.Equal(t, []string{"#1"}, s.Selectors())
}
