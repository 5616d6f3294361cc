//go:build !windows

package player

import (
	"os/exec"
	"syscall"
)

// detachedProcAttr puts the player in its own process group so terminal signals aimed at us do not reach it.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killGroup kills the player together with anything it spawned.
func killGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}
