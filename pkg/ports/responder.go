package ports

import "context"

// Responder is the output channel of a turn. Exactly one of its methods is called per turn.
type Responder interface {
	// Reply delivers a final answer.
	Reply(ctx context.Context, text string) error

	// Prompt asks a follow-up question; the next turn is expected to answer it.
	Prompt(ctx context.Context, text string) error
}
