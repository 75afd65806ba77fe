package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/ports"
)

// ErrEmptyLine is returned by ParseLine for a blank line.
var ErrEmptyLine = errors.New("empty line")

// Conversation is what the chat loop drives.
type Conversation interface {
	Respond(ctx context.Context, sessionID string, turn domain.Turn, r ports.Responder) error
	Reset(ctx context.Context, sessionID string) error
}

// ChatOptions configures RunChat.
type ChatOptions struct {
	SessionID string
	In        io.Reader
	Out       io.Writer

	// Render turns markdown into terminal output. Nil prints plain text.
	Render func(string) (string, error)
}

var quitCommands = map[string]bool{"q": true, "quit": true, "exit": true}

// ParseLine reads a turn typed as "<intent> [type=id ...]", e.g.
// "specify-location location=loc1". A bare "all" adds the all flag.
func ParseLine(line string) (domain.Turn, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return domain.Turn{}, ErrEmptyLine
	}

	turn := domain.Turn{Intent: domain.Intent(fields[0])}
	for _, field := range fields[1:] {
		typ, id, hasID := strings.Cut(field, "=")
		if typ == "" {
			return domain.Turn{}, fmt.Errorf("malformed entity %q, want type=id", field)
		}
		entity := domain.Entity{Type: domain.EntityType(typ)}
		if hasID {
			if id == "" {
				return domain.Turn{}, fmt.Errorf("entity %q has no id", typ)
			}
			entity.Value = []domain.EntityValue{{ID: id}}
		} else if entity.Type != domain.EntityAll {
			return domain.Turn{}, fmt.Errorf("malformed entity %q, want type=id", field)
		}
		turn.Entities = append(turn.Entities, entity)
	}
	return turn, nil
}

// RunChat reads turns line by line until EOF, a quit command or ctx is done.
// "reset" forgets the session. Internal faults are printed and the loop goes on.
func RunChat(ctx context.Context, conv Conversation, opts ChatOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(opts.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	out := &chatResponder{out: opts.Out, render: opts.Render}
	for {
		fmt.Fprint(opts.Out, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(opts.Out)
			return nil
		case err := <-readErr:
			fmt.Fprintln(opts.Out)
			return err
		case line = <-lines:
		}

		line, err := SanitizeLine(line)
		if err != nil {
			fmt.Fprintf(opts.Out, ">>> %v\n", err)
			continue
		}

		cmd := strings.TrimSpace(line)
		switch {
		case cmd == "":
			continue
		case quitCommands[cmd]:
			return nil
		case cmd == "reset":
			if err := conv.Reset(ctx, opts.SessionID); err != nil {
				return fmt.Errorf("reset session: %w", err)
			}
			fmt.Fprintf(opts.Out, ">>> Session '%s' reset.\n", opts.SessionID)
			continue
		}

		turn, err := ParseLine(cmd)
		if err != nil {
			fmt.Fprintf(opts.Out, ">>> %v\n", err)
			continue
		}
		if err := conv.Respond(ctx, opts.SessionID, turn, out); err != nil {
			fmt.Fprintf(opts.Out, ">>> error: %v\n", err)
		}
	}
}

// chatResponder prints replies as they are and prompts in italics.
type chatResponder struct {
	out    io.Writer
	render func(string) (string, error)
}

func (r *chatResponder) Reply(_ context.Context, text string) error {
	return r.print(text, text)
}

func (r *chatResponder) Prompt(_ context.Context, text string) error {
	return r.print(text, "_"+text+"_")
}

func (r *chatResponder) print(plain, markdown string) error {
	if r.render == nil {
		_, err := fmt.Fprintln(r.out, plain)
		return err
	}
	rendered, err := r.render(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(r.out, rendered)
	return err
}
