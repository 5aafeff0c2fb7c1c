// Package core defines the shared models and service contracts of the
// coverage aggregator.
package core

// Metric indexes into a CoverageMetrics triple.
type Metric int

// The three coverage metrics, in their fixed reporting order.
const (
	MetricLines Metric = iota
	MetricFunctions
	MetricBranches
	metricCount
)

func (m Metric) String() string {
	switch m {
	case MetricLines:
		return "lines"
	case MetricFunctions:
		return "functions"
	case MetricBranches:
		return "branches"
	}
	return "unknown"
}

// TestResultEntry describes one eligible per-test result directory.
// It is read once at scan time and immutable thereafter.
type TestResultEntry struct {
	// Name is the result directory name, used as the test identifier.
	Name string
	// Flavor is the run-configuration marker from the summary document.
	Flavor string
	// Description is the free-text label from the summary document,
	// falling back to Name when absent.
	Description string
	// Revision is the source-control identifier recorded in the summary.
	Revision string
}

// MetricPair holds one coverage metric as a (count, percentage) pair.
// Both fields are nil together when the analysis tool reported no data for
// the metric, e.g. branch coverage on an initial run.
type MetricPair struct {
	Count   *int64
	Percent *float64
}

// Valued returns a MetricPair with both fields set.
func Valued(count int64, percent float64) MetricPair {
	return MetricPair{Count: &count, Percent: &percent}
}

// Absent reports whether the pair carries no data.
func (p MetricPair) Absent() bool {
	return p.Count == nil && p.Percent == nil
}

// CoverageMetrics is the parsed coverage of one analysis report: exactly
// three pairs, ordered [lines, functions, branches].
type CoverageMetrics [metricCount]MetricPair

// CoverageDataset is an insertion-ordered mapping from a label (test
// description or the synthesized suite-total label) to its CoverageMetrics.
// It is built incrementally by the aggregation driver and read in full by
// the persistence sink, so stable ordering matters.
type CoverageDataset struct {
	keys    []string
	entries map[string]CoverageMetrics
}

// NewCoverageDataset returns an empty dataset.
func NewCoverageDataset() *CoverageDataset {
	return &CoverageDataset{entries: make(map[string]CoverageMetrics)}
}

// Set stores the metrics under the given label. A label keeps its original
// insertion position when set again.
func (d *CoverageDataset) Set(label string, cov CoverageMetrics) {
	if _, ok := d.entries[label]; !ok {
		d.keys = append(d.keys, label)
	}
	d.entries[label] = cov
}

// Get returns the metrics stored under label.
func (d *CoverageDataset) Get(label string) (CoverageMetrics, bool) {
	cov, ok := d.entries[label]
	return cov, ok
}

// Labels returns the labels in insertion order.
func (d *CoverageDataset) Labels() []string {
	labels := make([]string, len(d.keys))
	copy(labels, d.keys)
	return labels
}

// Len returns the number of entries.
func (d *CoverageDataset) Len() int {
	return len(d.keys)
}
