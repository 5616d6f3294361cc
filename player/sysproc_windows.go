//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

func detachedProcAttr() *syscall.SysProcAttr {
	return nil
}

func killGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
