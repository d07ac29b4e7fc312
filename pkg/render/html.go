// Package render turns aggregated zone reports into documents.
// Rendering is pure: the renderers never touch the network, and a
// failure affects only the zone and format being rendered.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/vulnreport/vulnreport/pkg/report"
	"github.com/vulnreport/vulnreport/templates"
)

// Renderer produces one document from one zone report.
type Renderer interface {
	Render(zr *report.ZoneReport) ([]byte, error)
}

// Compile-time interface checks.
var (
	_ Renderer = (*HTMLRenderer)(nil)
	_ Renderer = (*PDFRenderer)(nil)
)

const reportTemplate = "report.html.tmpl"

// timeFormat is the timestamp format used in rendered documents.
const timeFormat = "2006-01-02 15:04:05"

// HTMLRenderer renders a zone report as a standalone HTML document
// from the embedded template.
type HTMLRenderer struct {
	cfg  report.TemplateConfig
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded report template. The sprig
// funcmap is available to the template alongside formatTime.
func NewHTMLRenderer(cfg report.TemplateConfig) (*HTMLRenderer, error) {
	tmpl, err := template.New(reportTemplate).
		Funcs(sprig.HtmlFuncMap()).
		Funcs(template.FuncMap{
			"formatTime": func(t time.Time) string { return t.Format(timeFormat) },
		}).
		ParseFS(templates.FS, reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &HTMLRenderer{cfg: cfg, tmpl: tmpl}, nil
}

// htmlTemplateData is the root object passed to the template.
type htmlTemplateData struct {
	Title  string
	Config report.TemplateConfig
	Report *report.ZoneReport
}

// Render produces the HTML document for one zone report.
func (r *HTMLRenderer) Render(zr *report.ZoneReport) ([]byte, error) {
	var buf bytes.Buffer
	data := htmlTemplateData{
		Title:  "Vulnerability Report — " + zr.Zone.Name,
		Config: r.cfg,
		Report: zr,
	}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render HTML for zone %s: %w", zr.Zone.Name, err)
	}
	return buf.Bytes(), nil
}
