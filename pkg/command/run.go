// Package command runs the external coverage tools as subprocesses.
package command

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/LambdaTest/coverage-aggregator/pkg/core"
	"github.com/LambdaTest/coverage-aggregator/pkg/lumber"
)

type manager struct {
	logger lumber.Logger
}

// NewExecutionManager returns new instance of manager
func NewExecutionManager(logger lumber.Logger) core.ExecutionManager {
	return &manager{logger: logger}
}

// Execute runs the tool with both output streams going to the logger.
// Each invocation is a blocking call; the tool's non-zero exit status is
// propagated as an error.
func (m *manager) Execute(ctx context.Context, name string, args []string) error {
	logWriter := lumber.NewWriter(m.logger)
	defer logWriter.Close()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = logWriter
	cmd.Stderr = logWriter

	m.logger.Debugf("executing %s %s", name, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		m.logger.Errorf("command %s exited with error: %v", name, err)
		return err
	}
	return nil
}

// CaptureOutput runs the tool capturing its standard output, which the
// coverage tools use for their human-readable summaries. Standard error is
// streamed to the logger.
func (m *manager) CaptureOutput(ctx context.Context, name string, args []string) (string, error) {
	logWriter := lumber.NewWriter(m.logger)
	defer logWriter.Close()

	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	// mirror captured output into the log so a failed run keeps a record
	cmd.Stdout = io.MultiWriter(&stdout, logWriter)
	cmd.Stderr = logWriter

	m.logger.Debugf("executing %s %s", name, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		m.logger.Errorf("command %s exited with error: %v", name, err)
		return stdout.String(), err
	}
	return stdout.String(), nil
}
