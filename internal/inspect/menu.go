// Package inspect implements the interactive store inspection menus used by
// arena-live and arena-stats.
package inspect

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Action runs one menu entry.
type Action func(ctx context.Context, p *Prompt) error

// Item is one numbered menu entry.
type Item struct {
	Label  string
	Action Action
}

// Menu is a numbered-choice loop over a line reader. The last item is
// always the exit choice.
type Menu struct {
	header  string
	items   []Item
	exit    string
	goodbye string
	invalid string
	prompt  *Prompt
}

// Prompt reads answers line by line and writes prompts and results to out.
type Prompt struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompt wraps a reader and writer.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewScanner(in), out: out}
}

// Out returns the writer results are printed to.
func (p *Prompt) Out() io.Writer { return p.out }

// Printf writes formatted output.
func (p *Prompt) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Println writes a line.
func (p *Prompt) Println(line string) {
	_, _ = fmt.Fprintln(p.out, line)
}

// Line reads the next raw line, without printing anything.
func (p *Prompt) Line() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrEndOfInput
	}
	return strings.TrimRight(p.in.Text(), "\r"), nil
}

// Ask prints label and returns the trimmed answer.
func (p *Prompt) Ask(label string) (string, error) {
	p.Printf("%s", label)
	line, err := p.Line()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskInt asks for an integer.
func (p *Prompt) AskInt(label string) (int, error) {
	s, err := p.Ask(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return n, nil
}

// AskFloat asks for a float.
func (p *Prompt) AskFloat(label string) (float64, error) {
	s, err := p.Ask(label)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return f, nil
}

// Run loops until the exit choice, end of input or ctx is done. Action
// errors are printed and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	p := m.prompt
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.Println("")
		p.Println(m.header)
		for i, it := range m.items {
			p.Printf("%d. %s\n", i+1, it.Label)
		}
		p.Printf("%d. %s\n", len(m.items)+1, m.exit)

		choice, err := p.Ask("Choice: ")
		if errors.Is(err, ErrEndOfInput) {
			return nil
		}
		if err != nil {
			return err
		}

		n, convErr := strconv.Atoi(choice)
		switch {
		case convErr != nil || n < 1 || n > len(m.items)+1:
			p.Println(m.invalid)
		case n == len(m.items)+1:
			p.Println(m.goodbye)
			return nil
		default:
			err := m.items[n-1].Action(ctx, p)
			if errors.Is(err, ErrEndOfInput) {
				return nil
			}
			if err != nil {
				p.Printf("Error: %v\n", err)
			}
		}
	}
}
