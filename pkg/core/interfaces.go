package core

import (
	"context"
)

// SummaryScanner discovers eligible test result directories.
type SummaryScanner interface {
	// Scan walks the test results directory and returns the
	// coverage-enabled entries in lexical directory-name order.
	Scan(testDir string) ([]TestResultEntry, error)
}

// ReportParser extracts coverage metrics from analysis tool output.
type ReportParser interface {
	// Parse reads the textual coverage summary emitted by the analysis
	// tool and returns the metrics triple.
	Parse(output string) (CoverageMetrics, error)
}

// ExecutionManager runs the external coverage tools.
type ExecutionManager interface {
	// Execute runs the tool, streaming its output to the log. A non-zero
	// exit status is returned as an error.
	Execute(ctx context.Context, name string, args []string) error
	// CaptureOutput runs the tool and returns its combined standard
	// output, streaming standard error to the log. A non-zero exit
	// status is returned as an error.
	CaptureOutput(ctx context.Context, name string, args []string) (string, error)
}

// AggregationDriver folds per-test coverage traces into a suite total.
type AggregationDriver interface {
	// Run processes the eligible tests in order and returns the final
	// per-test and suite-total coverage dataset.
	Run(ctx context.Context, suite string, tests []TestResultEntry) (*CoverageDataset, error)
}

// CoverageStore persists a coverage dataset.
type CoverageStore interface {
	// Store bulk-inserts one row per dataset entry inside a single
	// transaction, rolling back entirely on any failure.
	Store(ctx context.Context, dataset *CoverageDataset, revision, suite string) error
}
