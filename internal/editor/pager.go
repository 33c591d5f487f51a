package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Pager pipes text through a viewer command. An empty command writes the
// text straight to Out.
type Pager struct {
	Command string
	Out     io.Writer
	Err     io.Writer
}

// NewPager returns a Pager writing to the process stdout.
func NewPager(command string) *Pager {
	return &Pager{Command: command, Out: os.Stdout, Err: os.Stderr}
}

// Page shows text and waits for the viewer to exit.
func (p *Pager) Page(ctx context.Context, text string) error {
	argv := strings.Fields(p.Command)
	if len(argv) == 0 {
		_, err := io.WriteString(p.Out, text)
		return err
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout, cmd.Stderr = p.Out, p.Err
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pager: %s: %w", argv[0], err)
	}
	return nil
}
