package pipeline

import (
	"context"

	"github.com/aurex-audio/aurexgen/internal/errors"
)

// Process exit codes, one per failure kind.
const (
	ExitOK              = 0
	ExitUsage           = 1
	ExitBuildFailed     = 2
	ExitUnknownPlatform = 3
	ExitArtifactMissing = 4
	ExitBindgenFailed   = 5
	ExitOther           = 6
	ExitInterrupted     = 130
)

// ExitCode maps an error returned by Run, or by the CLI around it, to the
// process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, errors.ErrUsage):
		return ExitUsage
	case errors.Is(err, errors.ErrBuildFailed):
		return ExitBuildFailed
	case errors.Is(err, errors.ErrUnknownPlatform):
		return ExitUnknownPlatform
	case errors.Is(err, errors.ErrArtifactMissing):
		return ExitArtifactMissing
	case errors.Is(err, errors.ErrBindgenFailed):
		return ExitBindgenFailed
	}
	return ExitOther
}
