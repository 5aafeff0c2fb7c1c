package main

// this is cmd/root_cmd.go

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/LambdaTest/coverage-aggregator/config"
	"github.com/LambdaTest/coverage-aggregator/pkg/command"
	"github.com/LambdaTest/coverage-aggregator/pkg/errs"
	"github.com/LambdaTest/coverage-aggregator/pkg/global"
	"github.com/LambdaTest/coverage-aggregator/pkg/lumber"
	"github.com/LambdaTest/coverage-aggregator/pkg/service/aggregator"
	"github.com/LambdaTest/coverage-aggregator/pkg/service/report"
	"github.com/LambdaTest/coverage-aggregator/pkg/service/scanner"
	"github.com/LambdaTest/coverage-aggregator/pkg/store"
)

// RootCommand will setup and return the root command
func RootCommand() *cobra.Command {
	rootCmd := cobra.Command{
		Use:     "covagg <test_dir>",
		Long:    `covagg aggregates the lcov coverage of a suite of test runs and stores per-test and total metrics`,
		Args:    cobra.ExactArgs(1),
		Version: global.COVAGG_BINARY_VERSION,
		Run:     run,
	}

	// define flags used for this command
	AttachCLIFlags(&rootCmd)

	return &rootCmd
}

func run(cmd *cobra.Command, args []string) {
	// cancel in-flight tool invocations on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(cmd)
	if err != nil {
		fmt.Printf("[Error] Failed to load config: %s", err.Error())
		os.Exit(1)
	}
	cfg.TestDir = args[0]
	if cfg.LcovOutput == "" {
		fmt.Printf("[Error] %s\n", errs.ErrMissingLcovOutput.Error())
		os.Exit(1)
	}

	// the run log lives next to the results it describes
	cfg.LogConfig.FileLocation = filepath.Join(cfg.TestDir, global.CoverageLogName)

	logger, err := lumber.NewLogger(cfg.LogConfig, cfg.Verbose, lumber.InstanceZapLogger)
	if err != nil {
		log.Fatalf("Could not instantiate logger %s", err.Error())
	}
	logger = logger.WithFields(lumber.Fields{"run_id": uuid.NewString()})

	suite := filepath.Base(filepath.Clean(cfg.TestDir))
	logger.Infof("aggregating coverage for suite %s", suite)

	tests, err := scanner.New(logger).Scan(cfg.TestDir)
	if err != nil {
		logger.Fatalf("error scanning test results: %v", err)
	}

	execManager := command.NewExecutionManager(logger)
	driver := aggregator.New(cfg, execManager, report.New(logger), logger)

	dataset, err := driver.Run(ctx, suite, tests)
	if err != nil {
		logger.Fatalf("error generating coverage: %v", err)
	}

	// all tests in a run share one revision, recorded in each summary
	revision := tests[0].Revision

	if err := store.New(cfg, logger).Store(ctx, dataset, revision, suite); err != nil {
		logger.Fatalf("error storing coverage: %v", err)
	}
}
