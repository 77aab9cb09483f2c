package internal

import (
	"runtime"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aurex-audio/aurexgen/internal/platform"
)

func newPlatformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Show the host platform and the expected library path",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runPlatform,
	}
}

func runPlatform(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	p := platform.Detect(runtime.GOOS)
	pterm.Fprintln(out, "platform: "+p.String()+" ("+runtime.GOOS+"/"+runtime.GOARCH+")")

	c, err := newCargo(cmd, cfg)
	if err != nil {
		return err
	}
	path, err := platform.NewResolver(p, cfg.LibName).Path(c.OutputDir())
	if err != nil {
		return err
	}
	pterm.Fprintln(out, "artifact: "+path)
	return nil
}
