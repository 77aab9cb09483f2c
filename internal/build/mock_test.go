package build

import (
	"context"
	"path/filepath"

	"github.com/aurex-audio/aurexgen/pkgs/proc"
)

// mockSystem implements buildsys.BuildSystem for testing.
type mockSystem struct {
	result *proc.Result
	err    error

	calls int
	args  []string
}

func (m *mockSystem) Build(ctx context.Context, args ...string) (*proc.Result, error) {
	m.calls++
	m.args = args
	if m.err != nil {
		return &proc.Result{ExitCode: -1}, m.err
	}
	return m.result, nil
}

func (m *mockSystem) OutputDir() string {
	return filepath.Join("target", "release")
}
