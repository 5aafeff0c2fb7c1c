package config

import "github.com/LambdaTest/coverage-aggregator/pkg/lumber"

// Model definition for configuration

// AggregatorConfig is the application's configuration. It is constructed
// once at startup and passed explicitly into every component; there is no
// ambient configuration lookup.
type AggregatorConfig struct {
	Config         string
	TestDir        string `json:"test-dir"`
	LcovOutput     string `json:"lcov-output"`
	HTMLOutput     string `json:"html-output"`
	CovToolsDir    string `json:"cov-tools-dir"`
	BuildOutputDir string `json:"build-output-dir" env:"BUILD_OUTPUT_DIR"`
	SkipInit       bool   `json:"skip-init"`
	LogFile        string
	LogConfig      lumber.LoggingConfig
	Env            string
	Verbose        bool
	DB             DB `json:"db"`
}

// DB holds the coverage database connection settings.
type DB struct {
	Host     string `json:"host" env:"DB_HOST"`
	User     string `json:"user" env:"DB_USER"`
	Name     string `json:"name" env:"DB_NAME"`
	Password string `json:"password" env:"DB_PASSWORD"`
}
