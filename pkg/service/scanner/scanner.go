// Package scanner discovers test result directories that carry coverage data.
package scanner

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LambdaTest/coverage-aggregator/pkg/core"
	"github.com/LambdaTest/coverage-aggregator/pkg/errs"
	"github.com/LambdaTest/coverage-aggregator/pkg/global"
	"github.com/LambdaTest/coverage-aggregator/pkg/lumber"
)

type summaryScanner struct {
	logger lumber.Logger
}

// New returns a new SummaryScanner.
func New(logger lumber.Logger) core.SummaryScanner {
	return &summaryScanner{logger: logger}
}

// Scan walks testDir and returns the eligible tests in lexical
// directory-name order. A candidate must be a non-hidden subdirectory
// containing both the run summary and the revision marker file; it is kept
// only when its summary marks the coverage flavor. Zero eligible tests is
// an error since there is nothing to aggregate.
func (s *summaryScanner) Scan(testDir string) ([]core.TestResultEntry, error) {
	dirEntries, err := os.ReadDir(testDir)
	if err != nil {
		return nil, errs.ErrInvalidTestResultDir(testDir, err)
	}

	tests := make([]core.TestResultEntry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if strings.HasPrefix(name, ".") || !dirEntry.IsDir() {
			continue
		}
		if !fileExists(filepath.Join(testDir, name, global.SummaryFileName)) ||
			!fileExists(filepath.Join(testDir, name, global.RevisionMarkerName)) {
			continue
		}

		summary, err := s.loadSummary(filepath.Join(testDir, name, global.SummaryFileName))
		if err != nil {
			return nil, err
		}

		flavor, _ := summary["flavor"].(string)
		if flavor != global.CoverageFlavor {
			s.logger.Debugf("Skipping %s, since it does not include coverage", name)
			continue
		}

		description := name
		if desc, ok := summary["description"].(string); ok && desc != "" {
			description = desc
		}
		revision, _ := summary[global.RevisionSummaryKey].(string)

		tests = append(tests, core.TestResultEntry{
			Name:        name,
			Flavor:      flavor,
			Description: description,
			Revision:    revision,
		})
	}

	if len(tests) == 0 {
		return nil, errs.ErrNoEligibleTests
	}
	return tests, nil
}

// loadSummary reads a run summary as a stream of YAML documents merged in
// order, so keys in later documents override earlier ones.
func (s *summaryScanner) loadSummary(path string) (map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	summary := make(map[string]interface{})
	dec := yaml.NewDecoder(f)
	for {
		doc := make(map[string]interface{})
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		for k, v := range doc {
			summary[k] = v
		}
	}
	return summary, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
