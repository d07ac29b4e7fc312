// Package config holds CLI configuration parsing and validation.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all CLI configuration options. Components receive this
// object explicitly; there is no ambient configuration state.
type Config struct {
	// Target environment
	EnvironmentURL string // Monitoring environment URL (e.g. https://abc123.live.dynatrace.com)
	APIToken       string // API token with securityProblems.read scope

	// Report window and output
	Days      int    // Lookback window in days (default: 7)
	OutputDir string // Root output directory (default: ./reports)

	// Format selection
	HTMLOnly bool // Generate only HTML reports
	PDFOnly  bool // Generate only PDF reports

	// Report customization
	ReportConfig string // Optional YAML file with branding/section settings

	// Network
	Insecure bool // Skip TLS certificate validation

	// Logging
	Debug   bool   // DEBUG-level logging
	LogFile string // Append-only log file (default: vulnreport.log)
}

// ParseFlags parses command line arguments into a Config. Every flag
// falls back to an environment variable of the corresponding name, so
// scheduled runs can be configured entirely through the environment.
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("vulnreport", flag.ContinueOnError)

	fs.StringVar(&cfg.EnvironmentURL, "env", envString("DYNATRACE_ENV", ""), "Monitoring environment URL")
	fs.StringVar(&cfg.EnvironmentURL, "e", envString("DYNATRACE_ENV", ""), "Environment URL (alias)")
	fs.StringVar(&cfg.APIToken, "token", envString("DYNATRACE_TOKEN", ""), "API token")
	fs.StringVar(&cfg.APIToken, "t", envString("DYNATRACE_TOKEN", ""), "API token (alias)")

	fs.IntVar(&cfg.Days, "days", envInt("DAYS", 7), "Lookback window in days")
	fs.IntVar(&cfg.Days, "d", envInt("DAYS", 7), "Lookback days (alias)")
	fs.StringVar(&cfg.OutputDir, "output", envString("OUTPUT_DIR", "./reports"), "Output directory for reports")
	fs.StringVar(&cfg.OutputDir, "o", envString("OUTPUT_DIR", "./reports"), "Output directory (alias)")

	fs.BoolVar(&cfg.HTMLOnly, "html-only", envBool("HTML_ONLY", false), "Generate only HTML reports")
	fs.BoolVar(&cfg.PDFOnly, "pdf-only", envBool("PDF_ONLY", false), "Generate only PDF reports")

	fs.StringVar(&cfg.ReportConfig, "report-config", envString("REPORT_CONFIG", ""), "YAML report template config")

	fs.BoolVar(&cfg.Insecure, "insecure", envBool("INSECURE", false), "Skip TLS certificate validation")
	fs.BoolVar(&cfg.Insecure, "k", envBool("INSECURE", false), "Skip TLS validation (alias)")

	fs.BoolVar(&cfg.Debug, "debug", envBool("DEBUG", false), "DEBUG-level logging")
	fs.StringVar(&cfg.LogFile, "log-file", envString("LOG_FILE", "vulnreport.log"), "Append-only log file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration before any network call is made.
func (c *Config) Validate() error {
	if c.EnvironmentURL == "" {
		return ErrMissingEnvironment
	}
	if !strings.HasPrefix(c.EnvironmentURL, "http://") && !strings.HasPrefix(c.EnvironmentURL, "https://") {
		return fmt.Errorf("%w: %q", ErrInvalidEnvironment, c.EnvironmentURL)
	}
	if c.APIToken == "" {
		return ErrMissingToken
	}
	if c.Days <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDays, c.Days)
	}
	if c.HTMLOnly && c.PDFOnly {
		return ErrConflictingFormats
	}
	return nil
}

// Formats returns the enabled output formats in render order.
func (c *Config) Formats() []string {
	switch {
	case c.HTMLOnly:
		return []string{"html"}
	case c.PDFOnly:
		return []string{"pdf"}
	default:
		return []string{"html", "pdf"}
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
