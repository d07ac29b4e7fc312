package ui

import (
	"fmt"
	"io"

	"github.com/vulnreport/vulnreport/pkg/report"
)

// ZoneResult is the console-facing outcome for one zone.
type ZoneResult struct {
	Zone    string
	Stats   report.SeverityStats
	Files   []string
	Failed  bool
	FailMsg string
}

// PrintRunSummary writes the end-of-run summary: one line per zone
// with its severity distribution and output files, or the failure
// reason for zones that produced nothing.
func PrintRunSummary(w io.Writer, results []ZoneResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, MutedStyle.Render("No vulnerabilities found; no reports generated."))
		return
	}

	fmt.Fprintln(w, TitleStyle.Render("Report Summary"))
	for _, res := range results {
		if res.Failed {
			fmt.Fprintf(w, "  %s %s %s\n",
				ErrorStyle.Render("✗"),
				ZoneStyle.Render(res.Zone),
				MutedStyle.Render(res.FailMsg))
			continue
		}
		fmt.Fprintf(w, "  %s %s  %s\n",
			SuccessStyle.Render("✓"),
			ZoneStyle.Render(res.Zone),
			formatStats(res.Stats))
		for _, f := range res.Files {
			fmt.Fprintf(w, "      %s\n", MutedStyle.Render(f))
		}
	}
}

// formatStats renders "12 total (3 critical, 4 high, 5 medium)" with
// zero buckets omitted.
func formatStats(s report.SeverityStats) string {
	out := fmt.Sprintf("%d total", s.Total())
	parts := ""
	add := func(n int, label string) {
		if n == 0 {
			return
		}
		if parts != "" {
			parts += ", "
		}
		parts += fmt.Sprintf("%d %s", n, label)
	}
	add(s.Critical, "critical")
	add(s.High, "high")
	add(s.Medium, "medium")
	add(s.Low, "low")
	if parts != "" {
		out += " (" + parts + ")"
	}
	return out
}
