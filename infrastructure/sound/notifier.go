// Package sound plays the local send notification. Playback is
// fire-and-forget and never part of correctness.
package sound

import (
	"os/exec"
)

// Notifier shells out to a configured player command. An empty command
// disables playback entirely.
type Notifier struct {
	command string
	args    []string
}

func NewNotifier(command string, args ...string) *Notifier {
	return &Notifier{command: command, args: args}
}

func (n *Notifier) Play() error {
	if n.command == "" {
		return nil
	}
	return exec.Command(n.command, n.args...).Run()
}
