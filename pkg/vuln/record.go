// Package vuln provides the shared vulnerability record model used by
// the API client, the aggregator, and the report renderers.
//
// Records are built once at the API-client boundary and treated as
// immutable afterwards: the aggregator only ever groups and counts them.
package vuln

import "time"

// ZoneRef identifies a management zone a record is tagged with.
// Zones are pure grouping keys; the report partitions on them.
type ZoneRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record is one open security problem as reported by the monitoring
// platform, flattened to the fields the report pipeline needs.
type Record struct {
	// ID is the platform's security problem identifier.
	ID string `json:"id"`

	// DisplayID is the short human-facing identifier (e.g. "S-1234").
	DisplayID string `json:"display_id,omitempty"`

	// Title is the problem headline.
	Title string `json:"title"`

	// Technology is the affected technology, when reported.
	Technology string `json:"technology,omitempty"`

	// CVEs lists the CVE identifiers linked to this problem.
	CVEs []string `json:"cves,omitempty"`

	// Severity is the normalized risk level.
	Severity Severity `json:"severity"`

	// RiskScore is the platform's numeric risk score (0-10).
	RiskScore float64 `json:"risk_score"`

	// FirstSeen is when the problem was first detected.
	FirstSeen time.Time `json:"first_seen"`

	// ProcessGroupIDs are the affected process group entities.
	// Empty when the platform reported no resolvable process group.
	ProcessGroupIDs []string `json:"process_group_ids,omitempty"`

	// HostIDs are the affected host entities.
	// Empty when the platform reported no resolvable host.
	HostIDs []string `json:"host_ids,omitempty"`

	// Zones are the management zones this record is tagged with.
	// A record may belong to several zones and is reported in each.
	Zones []ZoneRef `json:"zones,omitempty"`
}

// InZone reports whether the record is tagged with the given zone ID.
func (r *Record) InZone(zoneID string) bool {
	for _, z := range r.Zones {
		if z.ID == zoneID {
			return true
		}
	}
	return false
}

// DetectedSince reports whether the record was first seen at or after t.
// The boundary is inclusive: a record first seen exactly at t counts.
func (r *Record) DetectedSince(t time.Time) bool {
	return !r.FirstSeen.Before(t)
}
