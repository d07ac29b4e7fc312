package vuln

import "strings"

// Severity represents the risk level of a security problem.
// All values are lowercase strings; the API reports them uppercase
// and ParseSeverity normalizes at the client boundary.
type Severity string

const (
	// Critical represents immediate exposure requiring emergency patching.
	Critical Severity = "critical"

	// High represents significant exposure requiring prompt remediation.
	High Severity = "high"

	// Medium represents moderate exposure.
	Medium Severity = "medium"

	// Low represents limited exposure.
	Low Severity = "low"

	// None is the fallback for records whose risk level could not be
	// parsed. Such records still count toward zone totals.
	None Severity = "none"
)

// ParseSeverity maps an API risk level to a Severity.
// Unrecognized input yields None rather than an error so a single
// malformed record cannot abort a run.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return Critical
	case "high":
		return High
	case "medium":
		return Medium
	case "low":
		return Low
	default:
		return None
	}
}

// IsValid reports whether s is a recognized severity level.
func (s Severity) IsValid() bool {
	switch s {
	case Critical, High, Medium, Low, None:
		return true
	}
	return false
}

// Score returns a numeric score for sorting and comparison.
// Critical=4, High=3, Medium=2, Low=1, None=0.
func (s Severity) Score() int {
	switch s {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// String returns the severity as a string.
func (s Severity) String() string {
	return string(s)
}

// Ordered returns all severities from most to least severe.
// Renderers iterate this to keep table ordering stable.
func Ordered() []Severity {
	return []Severity{Critical, High, Medium, Low, None}
}
