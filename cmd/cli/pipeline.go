package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vulnreport/vulnreport/pkg/config"
	"github.com/vulnreport/vulnreport/pkg/dynatrace"
	"github.com/vulnreport/vulnreport/pkg/exitcode"
	"github.com/vulnreport/vulnreport/pkg/render"
	"github.com/vulnreport/vulnreport/pkg/report"
	"github.com/vulnreport/vulnreport/pkg/ui"
	"github.com/vulnreport/vulnreport/pkg/vuln"
)

// pipeline drives one report run: fetch, aggregate, render, write.
// Strictly sequential; it owns the aggregated data for the run and
// discards it afterwards.
type pipeline struct {
	cfg    *config.Config
	client *dynatrace.Client
	log    *slog.Logger

	// renderers maps format name ("html", "pdf") to its renderer.
	renderers map[string]render.Renderer

	// now is the clock; tests pin it.
	now func() time.Time
}

// newPipeline builds the renderers for the configured formats and the
// optional report template config.
func newPipeline(cfg *config.Config, client *dynatrace.Client, logger *slog.Logger) (*pipeline, error) {
	tmplCfg := report.DefaultTemplateConfig()
	if cfg.ReportConfig != "" {
		loaded, err := report.LoadTemplateConfig(cfg.ReportConfig)
		if err != nil {
			return nil, err
		}
		tmplCfg = loaded
	}

	renderers := make(map[string]render.Renderer)
	for _, format := range cfg.Formats() {
		switch format {
		case "html":
			r, err := render.NewHTMLRenderer(tmplCfg)
			if err != nil {
				return nil, err
			}
			renderers["html"] = r
		case "pdf":
			renderers["pdf"] = render.NewPDFRenderer(tmplCfg)
		}
	}

	return &pipeline{
		cfg:       cfg,
		client:    client,
		log:       logger,
		renderers: renderers,
		now:       time.Now,
	}, nil
}

// run executes the pipeline and returns the per-zone console results
// and the overall exit code.
func (p *pipeline) run(ctx context.Context) ([]ui.ZoneResult, exitcode.Code) {
	end := p.now()
	start := end.AddDate(0, 0, -p.cfg.Days)

	zones, err := p.client.ListManagementZones(ctx)
	if err != nil {
		return nil, p.apiExitCode(err)
	}
	p.log.Info("management zones fetched", "count", len(zones))

	records, err := p.client.ListSecurityProblems(ctx, start, end)
	if err != nil {
		return nil, p.apiExitCode(err)
	}
	if len(records) == 0 {
		// Nothing to report is a normal outcome for a quiet window.
		p.log.Info("no open security problems in window; nothing to report",
			"from", start, "to", end)
		return nil, exitcode.Success
	}
	p.log.Info("security problems in window", "count", len(records))

	resolve := p.entityResolver(ctx, records)
	zoneReports := report.Aggregate(records, start, end, resolve)

	return p.renderAll(zoneReports, end)
}

// entityResolver fetches display names for every referenced process
// group and host. Name resolution is enrichment: on failure the
// reports fall back to raw entity IDs rather than aborting the run.
func (p *pipeline) entityResolver(ctx context.Context, records []vuln.Record) report.NameResolver {
	seen := make(map[string]struct{})
	var ids []string
	collect := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, r := range records {
		for _, id := range r.ProcessGroupIDs {
			collect(id)
		}
		for _, id := range r.HostIDs {
			collect(id)
		}
	}

	names, err := p.client.ListEntities(ctx, ids)
	if err != nil {
		p.log.Warn("entity name lookup failed; using entity IDs", "error", err)
		return nil
	}
	return func(id string) string { return names[id] }
}

// renderAll writes every requested format for every zone report.
// A failure for one zone/format is logged and skipped; the run fails
// only when nothing at all was produced.
func (p *pipeline) renderAll(zoneReports []report.ZoneReport, end time.Time) ([]ui.ZoneResult, exitcode.Code) {
	date := end.Format("2006-01-02")
	results := make([]ui.ZoneResult, 0, len(zoneReports))
	produced := 0

	for i := range zoneReports {
		zr := &zoneReports[i]
		p.log.Info("processing management zone", "zone", zr.Zone.Name,
			"records", len(zr.Records), "new", len(zr.NewRecords))

		res := ui.ZoneResult{Zone: zr.Zone.Name, Stats: zr.Stats}

		zoneDir := filepath.Join(p.cfg.OutputDir, sanitizeName(zr.Zone.Name))
		if err := os.MkdirAll(zoneDir, 0o755); err != nil {
			p.log.Error("cannot create zone output directory",
				"zone", zr.Zone.Name, "dir", zoneDir, "error", err)
			res.Failed = true
			res.FailMsg = err.Error()
			results = append(results, res)
			continue
		}

		wrote := 0
		for format, renderer := range p.renderers {
			path := filepath.Join(zoneDir, fmt.Sprintf("vulnerability_report_%s.%s", date, format))
			if err := p.renderOne(renderer, zr, path); err != nil {
				p.log.Error("report generation failed; skipping",
					"zone", zr.Zone.Name, "format", format, "error", err)
				res.FailMsg = err.Error()
				continue
			}
			p.log.Info("report generated", "zone", zr.Zone.Name, "file", path)
			res.Files = append(res.Files, path)
			wrote++
		}

		if wrote == 0 {
			res.Failed = true
		} else {
			produced++
		}
		results = append(results, res)
	}

	if produced == 0 {
		return results, exitcode.NoOutput
	}
	return results, exitcode.Success
}

// renderOne renders a single zone/format document and writes it.
func (p *pipeline) renderOne(renderer render.Renderer, zr *report.ZoneReport, path string) error {
	data, err := renderer.Render(zr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// apiExitCode maps a fetch error to the run's exit code.
func (p *pipeline) apiExitCode(err error) exitcode.Code {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		p.log.Warn("run interrupted", "error", err)
		return exitcode.Interrupted
	case errors.Is(err, dynatrace.ErrUnreachable):
		p.log.Error("environment unreachable", "error", err)
		return exitcode.Unreachable
	default:
		p.log.Error("API request failed", "error", err)
		return exitcode.API
	}
}
