package internal

import (
	"io"

	"github.com/pterm/pterm"

	"github.com/aurex-audio/aurexgen/internal/errors"
	"github.com/aurex-audio/aurexgen/internal/pipeline"
	"github.com/aurex-audio/aurexgen/pkgs/proc"
)

// progressReporter prints a line when each phase starts and ends.
type progressReporter struct {
	w io.Writer
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{w: w}
}

func (r *progressReporter) PhaseStarted(p pipeline.Phase) {
	pterm.Fprintln(r.w, p.Message())
}

func (r *progressReporter) PhaseFinished(pipeline.Phase) {
	pterm.Fprintln(r.w, "Done.")
}

// printFailure shows the captured output of the failing tool, then the
// error and any hints attached to it.
func printFailure(w io.Writer, err error) {
	var exitErr *proc.ExitError
	if errors.As(err, &exitErr) {
		if out := exitErr.Result.Output(); out != "" {
			pterm.Fprintln(w, out)
		}
	}
	pterm.Error.WithWriter(w).Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.WithWriter(w).Println(hint)
	}
}
