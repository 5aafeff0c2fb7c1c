// Package report parses the textual coverage summaries emitted by the
// analysis and merge tools.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LambdaTest/coverage-aggregator/pkg/core"
	"github.com/LambdaTest/coverage-aggregator/pkg/lumber"
)

// metricPrefixes are the labels lcov prints in front of each metric line,
// indexed by core.Metric.
var metricPrefixes = [3]string{
	"  lines......: ",
	"  functions..: ",
	"  branches...: ",
}

type parser struct {
	logger lumber.Logger
}

// New returns a new ReportParser.
func New(logger lumber.Logger) core.ReportParser {
	return &parser{logger: logger}
}

// Parse scans the tool output in reverse line order, so the bottom-most
// occurrence of each metric line wins when the tool prints a metric more
// than once. Scanning stops once all three metrics have been assigned.
// A metric line without a percentage marker means the tool had no data for
// that metric; the pair stays absent and is not an error. Metrics never
// seen in the output also stay absent.
func (p *parser) Parse(output string) (core.CoverageMetrics, error) {
	var cov core.CoverageMetrics
	var assigned [3]bool

	p.logger.Debugf("reading coverage from output: %s", output)

	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		for m, prefix := range metricPrefixes {
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			if !assigned[m] {
				pair, err := parseMetricLine(line, prefix)
				if err != nil {
					return cov, fmt.Errorf("malformed %s line %q: %v", core.Metric(m), line, err)
				}
				cov[m] = pair
				assigned[m] = true
			}
			break
		}
		if assigned[0] && assigned[1] && assigned[2] {
			break
		}
	}
	return cov, nil
}

func parseMetricLine(line, prefix string) (core.MetricPair, error) {
	if !strings.Contains(line, "%") {
		// no data for e.g. branches on the initial run
		return core.MetricPair{}, nil
	}

	pctEnd := strings.Index(line, "%")
	percent, err := strconv.ParseFloat(strings.TrimSpace(line[len(prefix):pctEnd]), 64)
	if err != nil {
		return core.MetricPair{}, err
	}

	open := strings.Index(line, "(")
	of := strings.Index(line, " of")
	if open < 0 || of < open {
		return core.MetricPair{}, fmt.Errorf("missing numerator group")
	}
	count, err := strconv.ParseInt(strings.TrimSpace(line[open+1:of]), 10, 64)
	if err != nil {
		return core.MetricPair{}, err
	}

	return core.Valued(count, percent), nil
}
