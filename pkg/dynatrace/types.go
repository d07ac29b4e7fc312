package dynatrace

import (
	"strings"
	"time"

	"github.com/vulnreport/vulnreport/pkg/vuln"
)

// Entity ID prefixes used by the platform. Affected entities arrive as
// bare IDs; the prefix carries the entity type.
const (
	processGroupPrefix = "PROCESS_GROUP-"
	hostPrefix         = "HOST-"
)

// ManagementZone is one zone from the configuration API.
type ManagementZone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type managementZonesResponse struct {
	Values []ManagementZone `json:"values"`
}

// SecurityProblem is the wire representation of one security problem.
// Unknown severity and missing entity lists are tolerated here and
// normalized in Record; the rest of the pipeline never sees raw JSON.
type SecurityProblem struct {
	SecurityProblemID  string           `json:"securityProblemId"`
	DisplayID          string           `json:"displayId"`
	Title              string           `json:"title"`
	Technology         string           `json:"technology"`
	CVEIDs             []string         `json:"cveIds"`
	FirstSeenTimestamp int64            `json:"firstSeenTimestamp"`
	RiskAssessment     riskAssessment   `json:"riskAssessment"`
	ManagementZones    []ManagementZone `json:"managementZones"`
	AffectedEntities   []string         `json:"affectedEntities"`
	RelatedEntities    relatedEntities  `json:"relatedEntities"`
}

type riskAssessment struct {
	RiskLevel string  `json:"riskLevel"`
	RiskScore float64 `json:"riskScore"`
}

type relatedEntities struct {
	Hosts []entityRef `json:"hosts"`
}

type entityRef struct {
	ID string `json:"id"`
}

type securityProblemsResponse struct {
	SecurityProblems []SecurityProblem `json:"securityProblems"`
	NextPageKey      string            `json:"nextPageKey"`
}

// Entity is one monitored entity from the entities API, used to
// resolve process-group and host display names.
type Entity struct {
	EntityID    string `json:"entityId"`
	DisplayName string `json:"displayName"`
}

type entitiesResponse struct {
	Entities    []Entity `json:"entities"`
	NextPageKey string   `json:"nextPageKey"`
}

// Record converts the wire document into the immutable domain record.
// Process groups come from the affected-entity list; hosts from both
// the related-entity hosts and any affected host entities.
func (p *SecurityProblem) Record() vuln.Record {
	r := vuln.Record{
		ID:         p.SecurityProblemID,
		DisplayID:  p.DisplayID,
		Title:      p.Title,
		Technology: p.Technology,
		CVEs:       p.CVEIDs,
		Severity:   vuln.ParseSeverity(p.RiskAssessment.RiskLevel),
		RiskScore:  p.RiskAssessment.RiskScore,
		FirstSeen:  time.UnixMilli(p.FirstSeenTimestamp),
	}

	hostSeen := make(map[string]struct{})
	for _, e := range p.AffectedEntities {
		switch {
		case strings.HasPrefix(e, processGroupPrefix):
			r.ProcessGroupIDs = append(r.ProcessGroupIDs, e)
		case strings.HasPrefix(e, hostPrefix):
			if _, ok := hostSeen[e]; !ok {
				hostSeen[e] = struct{}{}
				r.HostIDs = append(r.HostIDs, e)
			}
		}
	}
	for _, h := range p.RelatedEntities.Hosts {
		if h.ID == "" {
			continue
		}
		if _, ok := hostSeen[h.ID]; !ok {
			hostSeen[h.ID] = struct{}{}
			r.HostIDs = append(r.HostIDs, h.ID)
		}
	}

	for _, z := range p.ManagementZones {
		r.Zones = append(r.Zones, vuln.ZoneRef{ID: z.ID, Name: z.Name})
	}
	return r
}
