package testutils

import (
	"encoding/json"
	"os"
	"path"
	"runtime"

	"github.com/LambdaTest/coverage-aggregator/config"
	"github.com/LambdaTest/coverage-aggregator/pkg/errs"
	"github.com/LambdaTest/coverage-aggregator/pkg/lumber"
)

// getCurrentWorkingDir give the file path of this file
func getCurrentWorkingDir() (string, error) {
	_, filename, _, ok := runtime.Caller(1)
	if !ok {
		return "", errs.New("runtime.Caller(1) was unable to recover information")
	}
	filepath := path.Join(path.Dir(filename), "../")
	return filepath, nil
}

// GetConfig returns a dummy AggregatorConfig using the json file pointed by ApplicationConfigPath
func GetConfig() (*config.AggregatorConfig, error) {
	cwd, err := getCurrentWorkingDir()
	if err != nil {
		return nil, err
	}
	configJSON, err := os.ReadFile(cwd + ApplicationConfigPath)
	if err != nil {
		return nil, err
	}
	var cfg *config.AggregatorConfig
	err = json.Unmarshal(configJSON, &cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetSampleReport returns the captured cov-analyze summary pointed by SampleReportPath
func GetSampleReport() (string, error) {
	cwd, err := getCurrentWorkingDir()
	if err != nil {
		return "", err
	}
	report, err := os.ReadFile(cwd + SampleReportPath)
	if err != nil {
		return "", err
	}
	return string(report), nil
}

// GetLogger returns a console-only logger for tests
func GetLogger() (lumber.Logger, error) {
	logger, err := lumber.NewLogger(lumber.LoggingConfig{EnableConsole: true, ConsoleLevel: lumber.Debug}, true, lumber.InstanceLogrusLogger)
	if err != nil {
		return nil, err
	}

	return logger, nil
}
