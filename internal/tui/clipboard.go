package tui

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

var errNoClipboard = errors.New("no clipboard command available")

// clipboardCommands are tried in order; wl-copy first for Wayland sessions.
var clipboardCommands = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// copyText pipes text into the first clipboard command found on PATH.
func copyText(text string) error {
	argv := clipboardCommand(exec.LookPath)
	if argv == nil {
		return errNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

func clipboardCommand(lookPath func(string) (string, error)) []string {
	for _, argv := range clipboardCommands {
		if _, err := lookPath(argv[0]); err == nil {
			return argv
		}
	}
	return nil
}
