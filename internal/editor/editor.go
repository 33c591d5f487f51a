// Package editor runs the external programs jot hands text to: the editor
// for long-entry notes and config files, and the pager for note pages.
package editor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Editor opens files in an interactive editor command such as "vim" or "code --wait".
type Editor struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns an Editor attached to the process terminal.
func New(command string) *Editor {
	return &Editor{Command: command, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Open runs the editor on path and waits for it to exit.
func (e *Editor) Open(ctx context.Context, path string) error {
	argv := strings.Fields(e.Command)
	if len(argv) == 0 {
		return fmt.Errorf("editor: no command configured")
	}
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = e.Stdin, e.Stdout, e.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor: %s: %w", argv[0], err)
	}
	return nil
}

// Edit writes initial to a temporary file, opens it and returns the saved
// text with trailing whitespace removed. changed is false when the buffer
// was saved byte-for-byte as it was written.
func (e *Editor) Edit(ctx context.Context, initial string) (text string, changed bool, err error) {
	f, err := os.CreateTemp("", "jot-*.txt")
	if err != nil {
		return "", false, fmt.Errorf("editor: temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", false, fmt.Errorf("editor: write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", false, err
	}
	before := sum([]byte(initial))

	if err := e.Open(ctx, name); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", false, fmt.Errorf("editor: read temp file: %w", err)
	}
	return strings.TrimRight(string(data), " \t\r\n"), sum(data) != before, nil
}

// sum returns the hex-encoded SHA-256 digest of data.
func sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
