package llm

import (
	"context"
	"fmt"
)

// CompletionRequest is one text-generation call to the language model.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int64
	Temperature float64
}

// Completion is the model's reply plus the token usage that prices it.
type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Completer is the single opaque language-model capability the rest of the
// system depends on. Implementations must honor ctx cancellation.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// GenerationError wraps a collaborator failure (transport, auth, quota).
// Callers recover locally — these never take down an operation chain.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
