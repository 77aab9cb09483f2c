//go:build windows

package proc

import (
	"os/exec"

	"github.com/shirou/gopsutil/v3/process"
)

// setProcessGroup makes cancellation terminate the whole process tree.
// cargo spawns rustc and build scripts that outlive a plain Kill.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		killChildren(int32(cmd.Process.Pid))
		return cmd.Process.Kill()
	}
}

func killChildren(pid int32) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return
	}
	children, err := p.Children()
	if err != nil {
		return
	}
	for _, c := range children {
		killChildren(c.Pid)
		_ = c.Kill()
	}
}
