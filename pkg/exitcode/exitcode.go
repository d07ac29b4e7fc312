// Package exitcode provides semantic exit codes so schedulers and CI
// jobs can distinguish why a report run failed.
//
// Exit codes:
//   - 0: Success (reports generated, or nothing to report)
//   - 1: No output produced (every zone/format failed)
//   - 2: API error
//   - 3: Invalid configuration
//   - 4: Environment unreachable
//   - 5: Run interrupted
package exitcode

import "fmt"

// Code represents a semantic exit code.
type Code int

const (
	// Success indicates the run completed and produced all requested
	// reports, or found nothing to report.
	Success Code = 0
	// NoOutput indicates rendering failed for every zone and format.
	NoOutput Code = 1
	// API indicates the monitoring API rejected or failed a request.
	API Code = 2
	// Configuration indicates invalid configuration was provided.
	Configuration Code = 3
	// Unreachable indicates the environment host could not be reached.
	Unreachable Code = 4
	// Interrupted indicates the run was interrupted (e.g., SIGINT).
	Interrupted Code = 5
)

var codeStrings = map[Code]string{
	Success:       "success",
	NoOutput:      "no_output_produced",
	API:           "api_error",
	Configuration: "invalid_configuration",
	Unreachable:   "environment_unreachable",
	Interrupted:   "run_interrupted",
}

var codeDescriptions = map[Code]string{
	Success:       "Run completed successfully",
	NoOutput:      "Report generation failed for every zone",
	API:           "The monitoring API returned an error",
	Configuration: "Invalid configuration provided",
	Unreachable:   "The environment URL is unreachable",
	Interrupted:   "Run was interrupted by user or signal",
}

// String returns the short machine-readable name for the code.
func (c Code) String() string {
	if s, ok := codeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown_%d", int(c))
}

// Description returns a human-readable explanation for the code.
func (c Code) Description() string {
	if d, ok := codeDescriptions[c]; ok {
		return d
	}
	return "Unknown exit code"
}

// Int returns the code as an int for os.Exit.
func (c Code) Int() int { return int(c) }
