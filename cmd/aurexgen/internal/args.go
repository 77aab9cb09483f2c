package internal

import (
	"github.com/spf13/cobra"

	"github.com/aurex-audio/aurexgen/internal/errors"
)

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return errors.Mark(err, errors.ErrUsage)
		}
		return nil
	}
}
