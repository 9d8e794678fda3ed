package bot

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// Messenger is the chat transport boundary. The router only ever exchanges
// plain text with it.
type Messenger interface {
	// Receive blocks until the next input line. io.EOF ends the session.
	Receive(ctx context.Context) (string, error)
	Send(ctx context.Context, reply string) error
}

// Console is a line-oriented Messenger over a reader/writer pair, used for
// local sessions on stdin/stdout.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (c *Console) Receive(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.scanner.Text(), nil
}

func (c *Console) Send(_ context.Context, reply string) error {
	_, err := io.WriteString(c.out, reply+"\n")
	return err
}

// Run shuttles lines between the messenger and the router until the input
// ends or the context is cancelled.
func Run(ctx context.Context, m Messenger, r *Router) error {
	for {
		line, err := m.Receive(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		for _, reply := range r.Handle(ctx, line) {
			if err := m.Send(ctx, reply); err != nil {
				return err
			}
		}
	}
}
