package audio

import (
	"context"
	"os/exec"
)

// execRunner abstracts external process execution so strategies can be
// tested without wslpath, powershell, or a media player installed.
type execRunner interface {
	// Output runs the command to completion and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Start spawns the command detached: the process is confirmed
	// started and then left to run on its own, with no window and no
	// inherited stdio.
	Start(ctx context.Context, name string, args ...string) error
}

type systemRunner struct{}

func (systemRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (systemRunner) Start(ctx context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	if err := cmd.Start(); err != nil {
		return err
	}
	// Playback outlives this call; detach so the child is never waited
	// on and cannot block process exit.
	return cmd.Process.Release()
}
