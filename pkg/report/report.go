// Package report aggregates vulnerability records into per-zone report
// data and holds the optional report template configuration.
package report

import (
	"sort"
	"time"

	"github.com/vulnreport/vulnreport/pkg/vuln"
)

// UnknownEntityID is the bucket for records that carry no resolvable
// process group or host. Such records are never dropped.
const UnknownEntityID = "unknown"

// SeverityStats is a severity distribution. Each record is counted in
// exactly one bucket, so Total always equals the record count.
type SeverityStats struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	None     int `json:"none,omitempty"`
}

// Total returns the number of records across all buckets.
func (s SeverityStats) Total() int {
	return s.Critical + s.High + s.Medium + s.Low + s.None
}

// Count returns the bucket value for the given severity.
func (s SeverityStats) Count(sev vuln.Severity) int {
	switch sev {
	case vuln.Critical:
		return s.Critical
	case vuln.High:
		return s.High
	case vuln.Medium:
		return s.Medium
	case vuln.Low:
		return s.Low
	default:
		return s.None
	}
}

func (s *SeverityStats) add(sev vuln.Severity) {
	switch sev {
	case vuln.Critical:
		s.Critical++
	case vuln.High:
		s.High++
	case vuln.Medium:
		s.Medium++
	case vuln.Low:
		s.Low++
	default:
		s.None++
	}
}

// EntityAggregation is the vulnerability subset attributed to one
// process group or host, with its own severity breakdown.
type EntityAggregation struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Stats   SeverityStats `json:"stats"`
	Records []vuln.Record `json:"records"`
}

// Total returns the number of records attributed to this entity.
func (a EntityAggregation) Total() int { return len(a.Records) }

// ZoneReport is the aggregated view of one management zone for one run.
// It is derived data: recomputed each run and discarded after rendering.
type ZoneReport struct {
	Zone        vuln.ZoneRef
	Start       time.Time
	End         time.Time
	GeneratedAt time.Time

	// Records are all records tagged with this zone, ordered by risk
	// score descending then ID.
	Records []vuln.Record

	// Stats is the zone-wide severity distribution.
	Stats SeverityStats

	// NewRecords are records first detected within [Start, End].
	// The lower boundary is inclusive.
	NewRecords []vuln.Record

	// ProcessGroups and Hosts are sub-aggregations ordered by total
	// descending then entity ID. Records without the respective entity
	// land in the UnknownEntityID bucket.
	ProcessGroups []EntityAggregation
	Hosts         []EntityAggregation
}

// CVEs returns the distinct CVE identifiers across all records in the
// zone, sorted. Both renderers emit exactly this set.
func (zr *ZoneReport) CVEs() []string {
	seen := make(map[string]struct{})
	for _, r := range zr.Records {
		for _, cve := range r.CVEs {
			seen[cve] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for cve := range seen {
		out = append(out, cve)
	}
	sort.Strings(out)
	return out
}

// NameResolver maps an entity ID to its display name. It returns ""
// when no name is known; the aggregator then falls back to the raw ID.
type NameResolver func(entityID string) string

// Aggregate partitions records by management zone membership and builds
// one ZoneReport per zone referenced by any record. A record tagged with
// several zones appears in each zone's report. Zones with zero records
// yield no report.
//
// The window [start, end] determines the NewRecords subset. resolve may
// be nil, in which case entity IDs double as display names.
func Aggregate(records []vuln.Record, start, end time.Time, resolve NameResolver) []ZoneReport {
	now := time.Now()

	byZone := make(map[string][]vuln.Record)
	zoneNames := make(map[string]string)
	for _, r := range records {
		for _, z := range r.Zones {
			byZone[z.ID] = append(byZone[z.ID], r)
			zoneNames[z.ID] = z.Name
		}
	}

	reports := make([]ZoneReport, 0, len(byZone))
	for zoneID, zoneRecords := range byZone {
		sort.SliceStable(zoneRecords, func(i, j int) bool {
			if zoneRecords[i].RiskScore != zoneRecords[j].RiskScore {
				return zoneRecords[i].RiskScore > zoneRecords[j].RiskScore
			}
			return zoneRecords[i].ID < zoneRecords[j].ID
		})

		zr := ZoneReport{
			Zone:        vuln.ZoneRef{ID: zoneID, Name: zoneNames[zoneID]},
			Start:       start,
			End:         end,
			GeneratedAt: now,
			Records:     zoneRecords,
		}

		pgs := newEntityIndex()
		hosts := newEntityIndex()
		for _, r := range zoneRecords {
			zr.Stats.add(r.Severity)
			if r.DetectedSince(start) {
				zr.NewRecords = append(zr.NewRecords, r)
			}
			pgs.add(r.ProcessGroupIDs, r)
			hosts.add(r.HostIDs, r)
		}

		zr.ProcessGroups = pgs.sorted(resolve)
		zr.Hosts = hosts.sorted(resolve)
		reports = append(reports, zr)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Zone.Name != reports[j].Zone.Name {
			return reports[i].Zone.Name < reports[j].Zone.Name
		}
		return reports[i].Zone.ID < reports[j].Zone.ID
	})
	return reports
}

// entityIndex accumulates per-entity sub-aggregations while scanning a
// zone's records.
type entityIndex struct {
	byID map[string]*EntityAggregation
}

func newEntityIndex() *entityIndex {
	return &entityIndex{byID: make(map[string]*EntityAggregation)}
}

// add attributes r to every entity in ids, or to the unknown bucket
// when ids is empty.
func (ix *entityIndex) add(ids []string, r vuln.Record) {
	if len(ids) == 0 {
		ids = []string{UnknownEntityID}
	}
	for _, id := range ids {
		agg := ix.byID[id]
		if agg == nil {
			agg = &EntityAggregation{ID: id}
			ix.byID[id] = agg
		}
		agg.Records = append(agg.Records, r)
		agg.Stats.add(r.Severity)
	}
}

// sorted resolves display names and returns the aggregations ordered by
// total descending, then entity ID for determinism.
func (ix *entityIndex) sorted(resolve NameResolver) []EntityAggregation {
	out := make([]EntityAggregation, 0, len(ix.byID))
	for id, agg := range ix.byID {
		name := ""
		if resolve != nil && id != UnknownEntityID {
			name = resolve(id)
		}
		if name == "" {
			name = id
		}
		agg.Name = name
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total() != out[j].Total() {
			return out[i].Total() > out[j].Total()
		}
		return out[i].ID < out[j].ID
	})
	return out
}
