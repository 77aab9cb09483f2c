//go:build !unix && !windows

package proc

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}
