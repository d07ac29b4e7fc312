package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vulnreport/vulnreport/pkg/report"
)

func TestPrintRunSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintRunSummary(&buf, nil)
	if !strings.Contains(buf.String(), "No vulnerabilities found") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestPrintRunSummary_ZoneLines(t *testing.T) {
	var buf bytes.Buffer
	PrintRunSummary(&buf, []ZoneResult{
		{
			Zone:  "Payments",
			Stats: report.SeverityStats{Critical: 2, High: 1},
			Files: []string{"reports/Payments/vulnerability_report_2026-08-27.html"},
		},
		{
			Zone:    "Web",
			Failed:  true,
			FailMsg: "render failed: template error",
		},
	})

	out := buf.String()
	for _, want := range []string{"Payments", "3 total", "2 critical", "1 high", "vulnerability_report_2026-08-27.html", "Web", "render failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatStats_OmitsZeroBuckets(t *testing.T) {
	got := formatStats(report.SeverityStats{High: 1})
	if got != "1 total (1 high)" {
		t.Errorf("unexpected: %q", got)
	}
	if formatStats(report.SeverityStats{}) != "0 total" {
		t.Error("zero stats must render as 0 total")
	}
}
