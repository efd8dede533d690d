// Package llm provides the completion client used by the source agents,
// including declared callable tools and JSON output coercion.
package llm

import (
	"context"
	"errors"
)

// Tool declares a callable function the model may invoke before producing its
// final text. Parameters is a JSON schema object describing the arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     func(ctx context.Context, args map[string]any) (string, error)
}

// Request is a single completion request. When Tools is non-empty the client
// runs the function-calling loop until the model produces final text.
type Request struct {
	System string
	User   string
	Tools  []Tool
}

// Client is the completion collaborator. Implementations return the model's
// final text output; coercing it into a schema is the caller's concern.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

var (
	// ErrEmptyCompletion is returned when the model produced no choices.
	ErrEmptyCompletion = errors.New("model returned no completion choices")

	// ErrToolRoundsExceeded is returned when the function-calling loop did not
	// converge on final text.
	ErrToolRoundsExceeded = errors.New("tool call rounds exceeded")

	// ErrUnknownTool is returned when the model invoked an undeclared tool.
	ErrUnknownTool = errors.New("model invoked unknown tool")
)
