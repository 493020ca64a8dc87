package resolver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// InputProvider supplies one line of operator input for a prompt.
type InputProvider interface {
	ReadLine(prompt string) (string, error)
}

// Console reads lines from In after writing the prompt to Out.
type Console struct {
	In  io.Reader
	Out io.Writer

	r *bufio.Reader
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{In: in, Out: out}
}

func (c *Console) ReadLine(prompt string) (string, error) {
	if c.r == nil {
		c.r = bufio.NewReader(c.In)
	}
	fmt.Fprint(c.Out, prompt)
	// A closed stdin yields whatever was typed so far, possibly nothing.
	line, err := c.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Static answers every prompt with the same line.
type Static struct {
	Line string
	Err  error
}

func (s Static) ReadLine(string) (string, error) {
	return s.Line, s.Err
}
