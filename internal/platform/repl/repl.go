// Package repl runs a line-oriented read-eval-print loop over a Handler.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Handler turns one line of input into a reply. done reports that the session
// should end after the reply is printed.
type Handler interface {
	Handle(ctx context.Context, line string) (reply string, done bool)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, line string) (string, bool)

func (f HandlerFunc) Handle(ctx context.Context, line string) (string, bool) {
	return f(ctx, line)
}

// Options control how the loop presents itself.
type Options struct {
	Prompt      string
	PromptStyle lipgloss.Style
	// OnEOF is called when input ends before the handler asked to stop.
	OnEOF func(ctx context.Context) string
}

// Run reads lines from in until the handler reports done, input ends or ctx is
// cancelled. Blank lines are ignored. Run returns ctx.Err() on cancellation and
// the read error, if any, when input fails.
func Run(ctx context.Context, in io.Reader, out io.Writer, h Handler, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, opts.PromptStyle.Render(opts.Prompt))

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out)
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := <-readErr; err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			if opts.OnEOF != nil {
				if reply := opts.OnEOF(ctx); reply != "" {
					fmt.Fprintln(out, reply)
				}
			}
			return nil
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		reply, done := h.Handle(ctx, line)
		if reply != "" {
			fmt.Fprintln(out, reply)
		}
		if done {
			return nil
		}
	}
}
