package config

import (
	"github.com/LambdaTest/coverage-aggregator/pkg/global"
	"github.com/spf13/viper"
)

func setDefaultConfig() {
	viper.SetDefault("LogConfig.EnableConsole", true)
	viper.SetDefault("LogConfig.ConsoleJSONFormat", false)
	viper.SetDefault("LogConfig.ConsoleLevel", "info")
	viper.SetDefault("LogConfig.EnableFile", true)
	viper.SetDefault("LogConfig.FileJSONFormat", false)
	viper.SetDefault("LogConfig.FileLevel", "debug")
	viper.SetDefault("cov-tools-dir", global.DefaultCovToolsDir)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.name", "coverage")
	viper.SetDefault("Env", "prod")
	viper.SetDefault("Verbose", false)
}
