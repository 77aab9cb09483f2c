package buildsys

import (
	"context"

	"github.com/aurex-audio/aurexgen/pkgs/proc"
)

// BuildSystem captures shared capabilities of native build helpers.
// A failed build is reported through the returned Result; the error is
// reserved for a tool that could not run at all.
type BuildSystem interface {
	// Lifecycle.
	Build(ctx context.Context, args ...string) (*proc.Result, error)

	// Where artifacts land.
	OutputDir() string
}
