// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package announce

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Speaker turns a called number into some observable effect
type Speaker interface {
	Speak(ctx context.Context, number int) error
}

// Text is the sentence spoken for a called number
func Text(number int) string {
	return fmt.Sprintf("Numero %d allo sportello", number)
}

// CommandSpeaker runs an external text-to-speech program, passing the
// sentence as the last argument. Each announcement starts a new process.
type CommandSpeaker struct {
	name string
	args []string
}

// NewCommandSpeaker splits command on whitespace,
// e.g. "espeak-ng -v it -s 120".
func NewCommandSpeaker(command string) (*CommandSpeaker, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("empty TTS command")
	}
	return &CommandSpeaker{name: fields[0], args: fields[1:]}, nil
}

// Speak runs the command and waits for it to exit
func (c *CommandSpeaker) Speak(ctx context.Context, number int) error {
	ctx, cancel := context.WithTimeout(ctx, SpeakTimeout)
	defer cancel()

	args := append(append([]string{}, c.args...), Text(number))
	out, err := exec.CommandContext(ctx, c.name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("tts command %s failed: %w (output: %s)", c.name, err, bytes.TrimSpace(out))
	}
	return nil
}

// LogSpeaker only logs the sentence
type LogSpeaker struct{}

func (LogSpeaker) Speak(_ context.Context, number int) error {
	slog.Info("number called", "number", number, "text", Text(number))
	return nil
}

// MultiSpeaker speaks through every speaker in order. All of them run
// even when one fails.
type MultiSpeaker []Speaker

func (m MultiSpeaker) Speak(ctx context.Context, number int) error {
	var errs []error
	for _, s := range m {
		if err := s.Speak(ctx, number); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
