package aggregator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/LambdaTest/coverage-aggregator/config"
	"github.com/LambdaTest/coverage-aggregator/pkg/core"
	"github.com/LambdaTest/coverage-aggregator/pkg/global"
	"github.com/LambdaTest/coverage-aggregator/pkg/lumber"
	"github.com/LambdaTest/coverage-aggregator/pkg/service/report"
	"github.com/LambdaTest/coverage-aggregator/pkg/service/scanner"
	"github.com/LambdaTest/coverage-aggregator/testutils"
	"github.com/LambdaTest/coverage-aggregator/testutils/mocks"
)

const analyzeReportA = `Summary coverage rate:
  lines......: 40.0% (40 of 100 lines)
  functions..: 50.0% (5 of 10 functions)
  branches...: no data found
`

const analyzeReportB = `Summary coverage rate:
  lines......: 60.0% (60 of 100 lines)
  functions..: 70.0% (7 of 10 functions)
  branches...: 25.0% (2 of 8 branches)
`

const mergeReportFinal = `Combining tracefiles.
Summary coverage rate:
  lines......: 85.3% (120 of 140 lines)
  functions..: 90.0% (9 of 10 functions)
  branches...: 50.0% (4 of 8 branches)
`

func newTestDriver(t *testing.T, cfg *config.AggregatorConfig, execManager *mocks.ExecutionManager) (core.AggregationDriver, lumber.Logger) {
	t.Helper()
	logger, err := testutils.GetLogger()
	if err != nil {
		t.Fatalf("Couldn't initialize logger, error: %v", err)
	}
	return New(cfg, execManager, report.New(logger), logger), logger
}

func newTestConfig(t *testing.T, skipInit bool) *config.AggregatorConfig {
	t.Helper()
	return &config.AggregatorConfig{
		TestDir:        filepath.Join(t.TempDir(), "suite-nightly"),
		LcovOutput:     t.TempDir(),
		CovToolsDir:    "/opt/cov-tools",
		BuildOutputDir: "/srv/builds",
		SkipInit:       skipInit,
	}
}

// expectAnalyze registers a cov-analyze invocation for the test.
func expectAnalyze(execManager *mocks.ExecutionManager, cfg *config.AggregatorConfig, testName, output string) {
	execManager.On("CaptureOutput", mock.Anything,
		filepath.Join(cfg.CovToolsDir, global.CovAnalyzeScript),
		[]string{"-t", filepath.Join(cfg.TestDir, testName), "-d", cfg.LcovOutput, "-o", testName},
	).Return(output, nil).Once()
}

// expectMerge registers an lcov merge invocation that writes the temp trace
// like the real tool would.
func expectMerge(execManager *mocks.ExecutionManager, cfg *config.AggregatorConfig, testName, output, traceContent string) {
	execManager.On("CaptureOutput", mock.Anything, global.LcovBin,
		[]string{
			"-a", filepath.Join(cfg.LcovOutput, testName+global.TraceFileExt),
			"-a", filepath.Join(cfg.LcovOutput, global.TotalTraceName),
			"-o", filepath.Join(cfg.LcovOutput, global.TotalTraceTmpName),
		},
	).Run(func(args mock.Arguments) {
		err := os.WriteFile(filepath.Join(cfg.LcovOutput, global.TotalTraceTmpName), []byte(traceContent), 0644)
		if err != nil {
			panic(err)
		}
	}).Return(output, nil).Once()
}

func seedTotal(t *testing.T, cfg *config.AggregatorConfig) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cfg.LcovOutput, global.TotalTraceName), []byte("TN:base\n"), 0644); err != nil {
		t.Fatalf("failed to seed total trace: %v", err)
	}
}

func TestDriver_Run(t *testing.T) {
	cfg := newTestConfig(t, true)
	seedTotal(t, cfg)
	execManager := new(mocks.ExecutionManager)
	d, _ := newTestDriver(t, cfg, execManager)

	tests := []core.TestResultEntry{
		{Name: "1-test-a", Flavor: "gcov", Description: "test-a", Revision: "abc"},
		{Name: "2-test-b", Flavor: "gcov", Description: "test-b", Revision: "abc"},
	}
	expectAnalyze(execManager, cfg, "1-test-a", analyzeReportA)
	expectMerge(execManager, cfg, "1-test-a", "intermediate merge\n", "TN:merged-a\n")
	expectAnalyze(execManager, cfg, "2-test-b", analyzeReportB)
	expectMerge(execManager, cfg, "2-test-b", mergeReportFinal, "TN:merged-ab\n")

	dataset, err := d.Run(context.Background(), "suite-nightly", tests)
	if err != nil {
		t.Fatalf("Run() unexpected error = %v", err)
	}
	execManager.AssertExpectations(t)

	wantLabels := []string{"test-a", "test-b", "total for suite-nightly"}
	if got := dataset.Labels(); !reflect.DeepEqual(got, wantLabels) {
		t.Errorf("dataset labels = %v, want %v", got, wantLabels)
	}

	covA, _ := dataset.Get("test-a")
	if !covA[core.MetricBranches].Absent() {
		t.Errorf("test-a branches should be absent on initial run")
	}
	if covA[core.MetricLines].Count == nil || *covA[core.MetricLines].Count != 40 {
		t.Errorf("test-a lines count = %+v, want 40", covA[core.MetricLines])
	}

	// suite total comes from the last merge output, not from test-b's report
	total, _ := dataset.Get("total for suite-nightly")
	want := core.CoverageMetrics{
		core.MetricLines:     core.Valued(120, 85.3),
		core.MetricFunctions: core.Valued(9, 90.0),
		core.MetricBranches:  core.Valued(4, 50.0),
	}
	if !reflect.DeepEqual(total, want) {
		t.Errorf("total metrics = %+v, want %+v", total, want)
	}

	// the cumulative trace was atomically replaced by the final merge result
	content, err := os.ReadFile(filepath.Join(cfg.LcovOutput, global.TotalTraceName))
	if err != nil {
		t.Fatalf("failed to read total trace: %v", err)
	}
	if string(content) != "TN:merged-ab\n" {
		t.Errorf("total trace content = %q, want final merge result", string(content))
	}
	if _, err := os.Stat(filepath.Join(cfg.LcovOutput, global.TotalTraceTmpName)); !os.IsNotExist(err) {
		t.Errorf("temp merge trace should have been renamed away")
	}
}

func TestDriver_Run_initSeedsTotalTrace(t *testing.T) {
	cfg := newTestConfig(t, false)
	execManager := new(mocks.ExecutionManager)
	d, _ := newTestDriver(t, cfg, execManager)

	tests := []core.TestResultEntry{
		{Name: "1-test-a", Flavor: "gcov", Description: "test-a", Revision: "abc"},
	}

	execManager.On("Execute", mock.Anything,
		filepath.Join(cfg.CovToolsDir, global.CovInitScript),
		[]string{
			filepath.Join(cfg.TestDir, "1-test-a"),
			cfg.LcovOutput,
			filepath.Join(cfg.BuildOutputDir, "suite-nightly.tgz"),
		},
	).Run(func(args mock.Arguments) {
		err := os.WriteFile(filepath.Join(cfg.LcovOutput, global.BaseTraceName), []byte("TN:baseline\n"), 0644)
		if err != nil {
			panic(err)
		}
	}).Return(nil).Once()

	expectAnalyze(execManager, cfg, "1-test-a", analyzeReportA)
	expectMerge(execManager, cfg, "1-test-a", mergeReportFinal, "TN:merged\n")

	if _, err := d.Run(context.Background(), "suite-nightly", tests); err != nil {
		t.Fatalf("Run() unexpected error = %v", err)
	}
	execManager.AssertExpectations(t)
}

func TestDriver_Run_initFailureIsFatal(t *testing.T) {
	cfg := newTestConfig(t, false)
	execManager := new(mocks.ExecutionManager)
	d, _ := newTestDriver(t, cfg, execManager)

	execManager.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("exit status 1")).Once()

	_, err := d.Run(context.Background(), "suite-nightly",
		[]core.TestResultEntry{{Name: "1-test-a", Description: "test-a"}})
	if err == nil {
		t.Fatal("Run() expected error when cov-init fails")
	}
	execManager.AssertNotCalled(t, "CaptureOutput", mock.Anything, mock.Anything, mock.Anything)
}

func TestDriver_Run_analyzerFailureIsFatal(t *testing.T) {
	cfg := newTestConfig(t, true)
	seedTotal(t, cfg)
	execManager := new(mocks.ExecutionManager)
	d, _ := newTestDriver(t, cfg, execManager)

	execManager.On("CaptureOutput", mock.Anything,
		filepath.Join(cfg.CovToolsDir, global.CovAnalyzeScript), mock.Anything).
		Return("", errors.New("exit status 2")).Once()

	_, err := d.Run(context.Background(), "suite-nightly",
		[]core.TestResultEntry{{Name: "1-test-a", Description: "test-a"}})
	if err == nil {
		t.Fatal("Run() expected error when analyzer fails")
	}
}

func TestDriver_Run_totalLabelIdempotent(t *testing.T) {
	runOnce := func(t *testing.T) core.CoverageMetrics {
		cfg := newTestConfig(t, true)
		seedTotal(t, cfg)
		execManager := new(mocks.ExecutionManager)
		d, _ := newTestDriver(t, cfg, execManager)

		expectAnalyze(execManager, cfg, "1-test-a", analyzeReportA)
		expectMerge(execManager, cfg, "1-test-a", mergeReportFinal, "TN:merged\n")

		dataset, err := d.Run(context.Background(), "suite-nightly",
			[]core.TestResultEntry{{Name: "1-test-a", Description: "test-a"}})
		if err != nil {
			t.Fatalf("Run() unexpected error = %v", err)
		}
		total, _ := dataset.Get("total for suite-nightly")
		return total
	}

	first := runOnce(t)
	second := runOnce(t)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("finalize is not idempotent: %+v vs %+v", first, second)
	}
}

func TestScanAndAggregate(t *testing.T) {
	cfg := newTestConfig(t, true)
	if err := os.MkdirAll(cfg.TestDir, 0755); err != nil {
		t.Fatalf("failed to create results dir: %v", err)
	}
	for name, summary := range map[string]string{
		"1-test-a": "flavor: gcov\ndescription: test-a\nceph-sha1: 3f8e1a\n",
		"2-test-b": "flavor: gcov\ndescription: test-b\nceph-sha1: 3f8e1a\n",
		"3-test-c": "flavor: other\ndescription: test-c\n",
	} {
		dir := filepath.Join(cfg.TestDir, name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create test dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, global.SummaryFileName), []byte(summary), 0644); err != nil {
			t.Fatalf("failed to write summary: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, global.RevisionMarkerName), []byte("3f8e1a\n"), 0644); err != nil {
			t.Fatalf("failed to write marker: %v", err)
		}
	}
	seedTotal(t, cfg)

	logger, err := testutils.GetLogger()
	if err != nil {
		t.Fatalf("Couldn't initialize logger, error: %v", err)
	}
	tests, err := scanner.New(logger).Scan(cfg.TestDir)
	if err != nil {
		t.Fatalf("Scan() unexpected error = %v", err)
	}

	execManager := new(mocks.ExecutionManager)
	expectAnalyze(execManager, cfg, "1-test-a", analyzeReportA)
	expectMerge(execManager, cfg, "1-test-a", "intermediate merge\n", "TN:merged-a\n")
	expectAnalyze(execManager, cfg, "2-test-b", analyzeReportB)
	expectMerge(execManager, cfg, "2-test-b", mergeReportFinal, "TN:merged-ab\n")

	d := New(cfg, execManager, report.New(logger), logger)
	dataset, err := d.Run(context.Background(), "suite-nightly", tests)
	if err != nil {
		t.Fatalf("Run() unexpected error = %v", err)
	}

	// test-c is not coverage-flavored, so exactly three entries remain
	wantLabels := []string{"test-a", "test-b", "total for suite-nightly"}
	if got := dataset.Labels(); !reflect.DeepEqual(got, wantLabels) {
		t.Errorf("dataset labels = %v, want %v", got, wantLabels)
	}
}

func TestDriver_Run_generatesHTMLReport(t *testing.T) {
	cfg := newTestConfig(t, true)
	cfg.HTMLOutput = t.TempDir()
	seedTotal(t, cfg)
	execManager := new(mocks.ExecutionManager)
	d, _ := newTestDriver(t, cfg, execManager)

	expectAnalyze(execManager, cfg, "1-test-a", analyzeReportA)
	expectMerge(execManager, cfg, "1-test-a", mergeReportFinal, "TN:merged\n")
	execManager.On("Execute", mock.Anything, global.GenHTMLBin,
		[]string{
			"-s",
			"-o", filepath.Join(cfg.HTMLOutput, "total"),
			"-t", "Total for suite-nightly",
			"--",
			filepath.Join(cfg.LcovOutput, global.TotalTraceName),
		},
	).Return(nil).Once()

	if _, err := d.Run(context.Background(), "suite-nightly",
		[]core.TestResultEntry{{Name: "1-test-a", Description: "test-a"}}); err != nil {
		t.Fatalf("Run() unexpected error = %v", err)
	}
	execManager.AssertExpectations(t)
}
