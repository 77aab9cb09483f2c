package internal

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aurex-audio/aurexgen/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default " + config.FileName,
		Long:  `Init writes ` + config.FileName + ` with the default settings to the current directory.`,
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(".", config.FileName)
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	pterm.Fprintln(cmd.OutOrStdout(), "Created "+path)
	return nil
}
