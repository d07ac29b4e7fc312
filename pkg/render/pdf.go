package render

import (
	"bytes"
	"fmt"
	"strings"

	gofpdf "github.com/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vulnreport/vulnreport/pkg/report"
	"github.com/vulnreport/vulnreport/pkg/vuln"
)

// pdfSeverityColors maps severities to RGB triples for table text.
var pdfSeverityColors = map[vuln.Severity][]int{
	vuln.Critical: {220, 38, 38},
	vuln.High:     {234, 88, 12},
	vuln.Medium:   {202, 138, 4},
	vuln.Low:      {22, 163, 74},
	vuln.None:     {107, 114, 128},
}

// PDFRenderer renders a zone report as a native PDF document. Its
// sections mirror the HTML template so both formats stay semantically
// equivalent.
type PDFRenderer struct {
	cfg       report.TemplateConfig
	titleCase cases.Caser

	// compress toggles stream compression; tests disable it to
	// inspect rendered text.
	compress bool
}

// NewPDFRenderer creates a PDF renderer with the given template config.
func NewPDFRenderer(cfg report.TemplateConfig) *PDFRenderer {
	return &PDFRenderer{cfg: cfg, titleCase: cases.Title(language.English), compress: true}
}

// Render produces the PDF document for one zone report.
func (r *PDFRenderer) Render(zr *report.ZoneReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	r.addHeader(pdf, zr)
	r.addSummary(pdf, zr)
	if r.cfg.Sections.NewVulnerabilities {
		r.addNewVulnerabilities(pdf, zr)
	}
	if r.cfg.Sections.ProcessGroups {
		r.addEntityTable(pdf, "Vulnerabilities by Process Group", "Process Group", zr.ProcessGroups)
	}
	if r.cfg.Sections.Hosts {
		r.addEntityTable(pdf, "Vulnerabilities by Host", "Host", zr.Hosts)
	}
	r.addDetails(pdf, zr)
	r.addFooter(pdf, zr)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF for zone %s: %w", zr.Zone.Name, err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) addHeader(pdf *gofpdf.Fpdf, zr *report.ZoneReport) {
	if company := r.cfg.Branding.CompanyName; company != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 6, company, "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 12, "Vulnerability Report - "+zr.Zone.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 116, 139)
	period := fmt.Sprintf("Reporting period: %s - %s",
		zr.Start.Format(timeFormat), zr.End.Format(timeFormat))
	pdf.CellFormat(0, 6, period, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (r *PDFRenderer) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (r *PDFRenderer) addSummary(pdf *gofpdf.Fpdf, zr *report.ZoneReport) {
	r.addSectionHeader(pdf, "Summary")

	// Header row.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(38, 8, "Total", "1", 0, "C", true, 0, "")
	for _, sev := range []vuln.Severity{vuln.Critical, vuln.High, vuln.Medium, vuln.Low} {
		pdf.CellFormat(38, 8, r.titleCase.String(sev.String()), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Count row.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(38, 9, fmt.Sprintf("%d", zr.Stats.Total()), "1", 0, "C", false, 0, "")
	for _, sev := range []vuln.Severity{vuln.Critical, vuln.High, vuln.Medium, vuln.Low} {
		c := pdfSeverityColors[sev]
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.CellFormat(38, 9, fmt.Sprintf("%d", zr.Stats.Count(sev)), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.Ln(6)
}

func (r *PDFRenderer) addNewVulnerabilities(pdf *gofpdf.Fpdf, zr *report.ZoneReport) {
	r.addSectionHeader(pdf, fmt.Sprintf("New Vulnerabilities (%d)", len(zr.NewRecords)))

	if len(zr.NewRecords) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, "No new vulnerabilities detected in this period.", "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(22, 7, "Severity", "1", 0, "L", true, 0, "")
	pdf.CellFormat(70, 7, "Title", "1", 0, "L", true, 0, "")
	pdf.CellFormat(48, 7, "CVE", "1", 0, "L", true, 0, "")
	pdf.CellFormat(18, 7, "Risk", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 7, "First Detected", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, rec := range zr.NewRecords {
		if i%2 == 0 {
			pdf.SetFillColor(248, 250, 252)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		c := pdfSeverityColors[rec.Severity]
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(22, 6, r.titleCase.String(rec.Severity.String()), "1", 0, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(70, 6, truncateString(rec.Title, 42), "1", 0, "L", true, 0, "")
		pdf.CellFormat(48, 6, truncateString(strings.Join(rec.CVEs, ", "), 28), "1", 0, "L", true, 0, "")
		pdf.CellFormat(18, 6, fmt.Sprintf("%.1f", rec.RiskScore), "1", 0, "C", true, 0, "")
		pdf.CellFormat(32, 6, rec.FirstSeen.Format("2006-01-02"), "1", 1, "L", true, 0, "")
	}
	pdf.Ln(6)
}

func (r *PDFRenderer) addEntityTable(pdf *gofpdf.Fpdf, title, label string, aggs []report.EntityAggregation) {
	r.addSectionHeader(pdf, title)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(78, 7, label, "1", 0, "L", true, 0, "")
	pdf.CellFormat(22, 7, "Total", "1", 0, "C", true, 0, "")
	for _, sev := range []vuln.Severity{vuln.Critical, vuln.High, vuln.Medium, vuln.Low} {
		pdf.CellFormat(22, 7, r.titleCase.String(sev.String()), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, agg := range aggs {
		if i%2 == 0 {
			pdf.SetFillColor(248, 250, 252)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(78, 6, truncateString(agg.Name, 48), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(22, 6, fmt.Sprintf("%d", agg.Total()), "1", 0, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, sev := range []vuln.Severity{vuln.Critical, vuln.High, vuln.Medium, vuln.Low} {
			n := agg.Stats.Count(sev)
			if n > 0 {
				c := pdfSeverityColors[sev]
				pdf.SetTextColor(c[0], c[1], c[2])
				pdf.CellFormat(22, 6, fmt.Sprintf("%d", n), "1", 0, "C", true, 0, "")
			} else {
				pdf.SetTextColor(180, 180, 180)
				pdf.CellFormat(22, 6, "-", "1", 0, "C", true, 0, "")
			}
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func (r *PDFRenderer) addDetails(pdf *gofpdf.Fpdf, zr *report.ZoneReport) {
	pdf.AddPage()
	r.addSectionHeader(pdf, "Vulnerability Details")

	_, pageH := pdf.GetPageSize()
	pageBreakY := pageH - 40

	for i, rec := range zr.Records {
		// Each detail block needs ~30mm.
		if i > 0 && pdf.GetY()+30 > pageBreakY {
			pdf.AddPage()
		}

		id := rec.DisplayID
		if id == "" {
			id = rec.ID
		}

		c := pdfSeverityColors[rec.Severity]
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.CellFormat(0, 8, fmt.Sprintf("[%s] %s - %s",
			strings.ToUpper(rec.Severity.String()), id, truncateString(rec.Title, 60)),
			"", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(80, 80, 80)
		if len(rec.CVEs) > 0 {
			pdf.MultiCell(0, 5, "CVE: "+strings.Join(rec.CVEs, ", "), "", "L", false)
		}
		line := fmt.Sprintf("Risk score: %.1f    First detected: %s",
			rec.RiskScore, rec.FirstSeen.Format(timeFormat))
		if rec.Technology != "" {
			line += "    Technology: " + rec.Technology
		}
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		if len(rec.ProcessGroupIDs) > 0 {
			pdf.MultiCell(0, 5, "Process groups: "+strings.Join(rec.ProcessGroupIDs, ", "), "", "L", false)
		}
		if len(rec.HostIDs) > 0 {
			pdf.MultiCell(0, 5, "Hosts: "+strings.Join(rec.HostIDs, ", "), "", "L", false)
		}
		pdf.Ln(3)
	}
}

func (r *PDFRenderer) addFooter(pdf *gofpdf.Fpdf, zr *report.ZoneReport) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(100, 116, 139)
	footer := "Generated " + zr.GeneratedAt.Format(timeFormat)
	if r.cfg.Branding.FooterText != "" {
		footer += " - " + r.cfg.Branding.FooterText
	}
	pdf.CellFormat(0, 5, footer, "", 1, "L", false, 0, "")
}

// truncateString shortens s to max runes with an ellipsis.
func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
