package testutils

// Various constant defined for to obtain dummy data for tests
const (
	ApplicationConfigPath = "/testutils/testdata/sample_config.json" // ApplicationConfigPath points to dummy config file in json format for AggregatorConfig
	SampleReportPath      = "/testutils/testdata/sample_report.txt"  // SampleReportPath points to a captured cov-analyze summary
)
