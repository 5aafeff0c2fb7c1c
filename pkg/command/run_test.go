package command

import (
	"context"
	"reflect"
	"testing"

	"github.com/LambdaTest/coverage-aggregator/pkg/core"
	"github.com/LambdaTest/coverage-aggregator/pkg/lumber"
	"github.com/LambdaTest/coverage-aggregator/testutils"
)

// NOTE: Tests in this package are meant to be run in a Linux environment

func TestNewExecutionManager(t *testing.T) {
	logger, err := testutils.GetLogger()
	if err != nil {
		t.Errorf("Couldn't initialize logger, error: %v", err)
	}
	type args struct {
		logger lumber.Logger
	}
	tests := []struct {
		name string
		args args
		want core.ExecutionManager
	}{
		{"Test initialisation func",
			args{logger: logger},
			&manager{logger: logger},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewExecutionManager(tt.args.logger); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewExecutionManager() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_manager_CaptureOutput(t *testing.T) {
	logger, err := testutils.GetLogger()
	if err != nil {
		t.Errorf("Couldn't initialize logger, error: %v", err)
	}
	m := &manager{logger: logger}

	tests := []struct {
		name    string
		cmd     string
		args    []string
		want    string
		wantErr bool
	}{
		{"Test capture of stdout", "echo", []string{"lines......: 85.3% (120 of 140)"}, "lines......: 85.3% (120 of 140)\n", false},
		{"Test non-zero exit propagation", "false", nil, "", true},
		{"Test stderr not captured", "sh", []string{"-c", "echo summary; echo noise >&2"}, "summary\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.CaptureOutput(context.Background(), tt.cmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("CaptureOutput() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("CaptureOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_manager_Execute(t *testing.T) {
	logger, err := testutils.GetLogger()
	if err != nil {
		t.Errorf("Couldn't initialize logger, error: %v", err)
	}
	m := &manager{logger: logger}

	if err := m.Execute(context.Background(), "true", nil); err != nil {
		t.Errorf("Execute() unexpected error = %v", err)
	}
	if err := m.Execute(context.Background(), "false", nil); err == nil {
		t.Errorf("Execute() expected error for non-zero exit, got nil")
	}
}
