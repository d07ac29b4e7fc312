// Command cli generates per-zone vulnerability reports from a
// monitoring environment: fetch security problems, aggregate them by
// management zone, and render HTML/PDF summaries.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/vulnreport/vulnreport/pkg/config"
	"github.com/vulnreport/vulnreport/pkg/dynatrace"
	"github.com/vulnreport/vulnreport/pkg/exitcode"
	"github.com/vulnreport/vulnreport/pkg/logutil"
	"github.com/vulnreport/vulnreport/pkg/ui"
)

func main() {
	os.Exit(run(os.Args[1:]).Int())
}

func run(args []string) exitcode.Code {
	cfg, err := config.ParseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitcode.Success
		}
		fmt.Fprintln(os.Stderr, err)
		return exitcode.Configuration
	}

	logger, closeLog, err := logutil.Setup(logutil.Options{Debug: cfg.Debug, LogFile: cfg.LogFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitcode.Configuration
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logger.Info("starting vulnerability report generation",
		"run_id", runID,
		"environment", cfg.EnvironmentURL,
		"days", cfg.Days,
		"formats", cfg.Formats())

	client := dynatrace.New(dynatrace.Config{
		EnvironmentURL: cfg.EnvironmentURL,
		APIToken:       cfg.APIToken,
		Insecure:       cfg.Insecure,
		RunID:          runID,
		Logger:         logger,
	})

	p, err := newPipeline(cfg, client, logger)
	if err != nil {
		logger.Error("pipeline setup failed", "error", err)
		return exitcode.Configuration
	}

	results, code := p.run(ctx)
	ui.PrintRunSummary(os.Stdout, results)
	logger.Info("report generation finished", "run_id", runID, "exit", code.String())
	return code
}
