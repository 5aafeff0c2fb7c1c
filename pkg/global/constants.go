package global

import "time"

// COVAGG_BINARY_VERSION is injected at build time
var COVAGG_BINARY_VERSION = "dev"

// All constants related to covagg
const (
	SummaryFileName    = "summary.yaml"
	RevisionMarkerName = "ceph-sha1"
	RevisionSummaryKey = "ceph-sha1"
	CoverageFlavor     = "gcov"

	BaseTraceName     = "base.lcov"
	TotalTraceName    = "total.lcov"
	TotalTraceTmpName = "total_tmp.lcov"
	TraceFileExt      = ".lcov"

	CovInitScript    = "cov-init.sh"
	CovAnalyzeScript = "cov-analyze.sh"
	LcovBin          = "lcov"
	GenHTMLBin       = "genhtml"

	BuildArchiveExt    = ".tgz"
	CoverageLogName    = "coverage.log"
	DefaultCovToolsDir = "../../coverage"
	TotalLabelPrefix   = "total for "

	DefaultDBDialTimeout = 30 * time.Second
	CoverageTableName    = "coverage"
)
