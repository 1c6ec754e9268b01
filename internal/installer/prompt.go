package installer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user a yes/no question and reports the answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// TerminalConfirmer reads yes/no answers from an input stream, defaulting to
// no on anything not starting with "y". EOF and read errors also mean no, so
// an interrupted pipe never silently approves a destructive action.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer

	// reader buffers In across calls; uninstall prompts twice in a row and
	// a per-call buffer would swallow the later answers.
	reader *bufio.Reader
}

func (c *TerminalConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.Out, "%s [y/N]: ", prompt)

	if c.reader == nil {
		c.reader = bufio.NewReader(c.In)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

// AutoConfirmer answers every question the same way. It backs the
// --yes flag.
type AutoConfirmer struct {
	Answer bool
}

func (c AutoConfirmer) Confirm(string) bool {
	return c.Answer
}
