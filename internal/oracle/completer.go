package oracle

import (
	"context"
	"errors"
)

// Sampling settings shared by every provider.
const (
	Temperature = 0.2
	MaxTokens   = 1200
)

var ErrEmptyCompletion = errors.New("no completion returned")

// Completer sends one system+user exchange to an LLM and returns the text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
