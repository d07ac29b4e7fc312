package dynatrace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vulnreport/vulnreport/pkg/vuln"
)

func TestSecurityProblem_Record(t *testing.T) {
	p := SecurityProblem{
		SecurityProblemID:  "SP-1",
		DisplayID:          "S-42",
		Title:              "Remote Code Execution in log4j",
		Technology:         "JAVA",
		CVEIDs:             []string{"CVE-2021-44228", "CVE-2021-45046"},
		FirstSeenTimestamp: 1756000000000,
		RiskAssessment:     riskAssessment{RiskLevel: "CRITICAL", RiskScore: 10},
		ManagementZones:    []ManagementZone{{ID: "mz-1", Name: "Payments"}},
		AffectedEntities:   []string{"PROCESS_GROUP-AAA1", "HOST-CCC3", "SERVICE-DDD4"},
		RelatedEntities:    relatedEntities{Hosts: []entityRef{{ID: "HOST-BBB2"}, {ID: "HOST-CCC3"}}},
	}

	r := p.Record()
	assert.Equal(t, "SP-1", r.ID)
	assert.Equal(t, "S-42", r.DisplayID)
	assert.Equal(t, vuln.Critical, r.Severity)
	assert.Equal(t, 10.0, r.RiskScore)
	assert.Equal(t, time.UnixMilli(1756000000000), r.FirstSeen)
	assert.Equal(t, []string{"PROCESS_GROUP-AAA1"}, r.ProcessGroupIDs)
	// Hosts come from both affected and related entities, deduplicated;
	// unrelated entity types are ignored.
	assert.Equal(t, []string{"HOST-CCC3", "HOST-BBB2"}, r.HostIDs)
	assert.Equal(t, []vuln.ZoneRef{{ID: "mz-1", Name: "Payments"}}, r.Zones)
}

func TestSecurityProblem_Record_UnknownFieldsFallBack(t *testing.T) {
	p := SecurityProblem{
		SecurityProblemID: "SP-2",
		RiskAssessment:    riskAssessment{RiskLevel: "EXOTIC"},
	}

	r := p.Record()
	assert.Equal(t, vuln.None, r.Severity, "unparseable risk level falls back to none")
	assert.Empty(t, r.ProcessGroupIDs)
	assert.Empty(t, r.HostIDs)
	assert.Empty(t, r.Zones)
}
