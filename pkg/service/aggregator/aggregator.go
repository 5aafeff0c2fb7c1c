// Package aggregator folds per-test coverage traces into a suite total.
package aggregator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/LambdaTest/coverage-aggregator/config"
	"github.com/LambdaTest/coverage-aggregator/pkg/core"
	"github.com/LambdaTest/coverage-aggregator/pkg/global"
	"github.com/LambdaTest/coverage-aggregator/pkg/lumber"
)

type driver struct {
	logger      lumber.Logger
	execManager core.ExecutionManager
	parser      core.ReportParser
	cfg         *config.AggregatorConfig
}

// New returns a new AggregationDriver.
func New(cfg *config.AggregatorConfig,
	execManager core.ExecutionManager,
	parser core.ReportParser,
	logger lumber.Logger) core.AggregationDriver {
	return &driver{
		logger:      logger,
		execManager: execManager,
		parser:      parser,
		cfg:         cfg,
	}
}

// Run executes the aggregation state machine: seed the cumulative trace
// (unless resuming with skip-init), analyze and merge each test in scan
// order, then record the suite total and optionally generate the HTML
// report. Any tool failure aborts the run.
func (d *driver) Run(ctx context.Context, suite string, tests []core.TestResultEntry) (*core.CoverageDataset, error) {
	if len(tests) == 0 {
		return nil, fmt.Errorf("no tests to aggregate for suite %s", suite)
	}

	if !d.cfg.SkipInit {
		if err := d.initTrace(ctx, suite, tests[0]); err != nil {
			return nil, err
		}
	}

	dataset := core.NewCoverageDataset()

	// the merge tool prints a coverage summary for the combined trace;
	// the last one doubles as the suite total below
	var lastOutput string
	for i := range tests {
		test := &tests[i]

		d.logger.Infof("analyzing coverage for %s", test.Name)
		output, err := d.execManager.CaptureOutput(ctx,
			filepath.Join(d.cfg.CovToolsDir, global.CovAnalyzeScript),
			[]string{
				"-t", filepath.Join(d.cfg.TestDir, test.Name),
				"-d", d.cfg.LcovOutput,
				"-o", test.Name,
			})
		if err != nil {
			return nil, fmt.Errorf("analyzing %s: %w", test.Name, err)
		}

		cov, err := d.parser.Parse(output)
		if err != nil {
			return nil, fmt.Errorf("parsing report for %s: %w", test.Name, err)
		}
		dataset.Set(test.Description, cov)

		d.logger.Infof("adding %s data to total", test.Name)
		lastOutput, err = d.mergeIntoTotal(ctx, test.Name)
		if err != nil {
			return nil, fmt.Errorf("merging %s: %w", test.Name, err)
		}
	}

	// The last merge output is reused as a stand-in for the coverage of the
	// final cumulative trace instead of re-running the analyzer over it.
	total, err := d.parser.Parse(lastOutput)
	if err != nil {
		return nil, fmt.Errorf("parsing total report: %w", err)
	}
	dataset.Set(global.TotalLabelPrefix+suite, total)
	d.logger.Debugf("total coverage is %+v", total)

	if d.cfg.HTMLOutput != "" {
		if err := d.generateHTML(ctx, suite); err != nil {
			return nil, err
		}
	}

	return dataset, nil
}

// initTrace runs the initializer once against the first test's results,
// which only works if all tests were run against the same version, then
// seeds the cumulative trace from the baseline it produces.
func (d *driver) initTrace(ctx context.Context, suite string, first core.TestResultEntry) error {
	d.logger.Infof("initializing coverage data...")
	err := d.execManager.Execute(ctx,
		filepath.Join(d.cfg.CovToolsDir, global.CovInitScript),
		[]string{
			filepath.Join(d.cfg.TestDir, first.Name),
			d.cfg.LcovOutput,
			filepath.Join(d.cfg.BuildOutputDir, suite+global.BuildArchiveExt),
		})
	if err != nil {
		return fmt.Errorf("initializing coverage data: %w", err)
	}
	return copyFile(
		filepath.Join(d.cfg.LcovOutput, global.BaseTraceName),
		filepath.Join(d.cfg.LcovOutput, global.TotalTraceName))
}

// mergeIntoTotal merges the test's trace into the cumulative trace. The
// merge result is written to a temp path and renamed into place so a crash
// mid-merge never corrupts the previous valid total.
func (d *driver) mergeIntoTotal(ctx context.Context, testName string) (string, error) {
	totalPath := filepath.Join(d.cfg.LcovOutput, global.TotalTraceName)
	tmpPath := filepath.Join(d.cfg.LcovOutput, global.TotalTraceTmpName)

	output, err := d.execManager.CaptureOutput(ctx, global.LcovBin,
		[]string{
			"-a", filepath.Join(d.cfg.LcovOutput, testName+global.TraceFileExt),
			"-a", totalPath,
			"-o", tmpPath,
		})
	if err != nil {
		return output, err
	}
	if err := os.Rename(tmpPath, totalPath); err != nil {
		return output, err
	}
	return output, nil
}

func (d *driver) generateHTML(ctx context.Context, suite string) error {
	err := d.execManager.Execute(ctx, global.GenHTMLBin,
		[]string{
			"-s",
			"-o", filepath.Join(d.cfg.HTMLOutput, "total"),
			"-t", fmt.Sprintf("Total for %s", suite),
			"--",
			filepath.Join(d.cfg.LcovOutput, global.TotalTraceName),
		})
	if err != nil {
		return fmt.Errorf("generating html report: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
