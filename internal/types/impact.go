package types

import (
	"fmt"
	"strings"
)

// Impact is the severity of an accessibility violation.
type Impact string

const (
	ImpactMinor    Impact = "minor"
	ImpactModerate Impact = "moderate"
	ImpactSerious  Impact = "serious"
	ImpactCritical Impact = "critical"
)

// Impacts lists every impact level from least to most severe.
var Impacts = []Impact{ImpactMinor, ImpactModerate, ImpactSerious, ImpactCritical}

// ParseImpact converts a string into an Impact, ignoring case and surrounding whitespace.
func ParseImpact(s string) (Impact, error) {
	impact := Impact(strings.ToLower(strings.TrimSpace(s)))
	if !impact.Valid() {
		return "", fmt.Errorf("unknown impact %q (expected minor, moderate, serious, or critical)", s)
	}
	return impact, nil
}

// Valid reports whether the impact is one of the four known levels.
func (i Impact) Valid() bool {
	return i.Rank() > 0
}

// Rank orders impacts by severity. Unknown impacts rank 0.
func (i Impact) Rank() int {
	switch i {
	case ImpactMinor:
		return 1
	case ImpactModerate:
		return 2
	case ImpactSerious:
		return 3
	case ImpactCritical:
		return 4
	}
	return 0
}

// AtLeast reports whether i is as severe as other or more.
func (i Impact) AtLeast(other Impact) bool {
	return i.Rank() >= other.Rank()
}

// Title returns the impact with its first letter upper-cased ("serious" -> "Serious").
func (i Impact) Title() string {
	if i == "" {
		return ""
	}
	s := string(i)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (i Impact) String() string {
	return string(i)
}
