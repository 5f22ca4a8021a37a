package extractor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer decides at a stride checkpoint whether extraction continues.
type Confirmer interface {
	Confirm(linesWritten int) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(linesWritten int) (bool, error)

func (f ConfirmFunc) Confirm(linesWritten int) (bool, error) {
	return f(linesWritten)
}

// Unattended continues past every checkpoint.
var Unattended Confirmer = ConfirmFunc(func(int) (bool, error) { return true, nil })

// LineConfirmer asks on out and reads one answer line from in.
// Only "y" (any case) continues; end of input stops.
type LineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineConfirmer prompts on out and reads answers from in.
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm prints the prompt and reports whether the answer was y.
func (c *LineConfirmer) Confirm(linesWritten int) (bool, error) {
	if _, err := fmt.Fprint(c.out, "Continue ? (Y/N): "); err != nil {
		return false, err
	}
	answer, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}
