package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

const (
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	backoffMult    = 2
)

// Claude is the Anthropic-backed Completer. The API key comes from the
// ANTHROPIC_API_KEY environment variable via the SDK's default client.
type Claude struct {
	model string
}

// NewClaude creates a completer bound to one model ID.
func NewClaude(model string) *Claude {
	return &Claude{model: model}
}

// Model returns the model ID this completer calls.
func (c *Claude) Model() string { return c.model }

// Complete calls the Messages API with exponential backoff on failure.
func (c *Claude) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	client := anthropic.NewClient()

	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, &GenerationError{Op: "complete", Err: ctx.Err()}
		}

		message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.model),
			MaxTokens:   req.MaxTokens,
			Temperature: anthropic.Float(req.Temperature),
			System: []anthropic.TextBlockParam{
				{Text: req.System},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
			},
		})
		if err != nil {
			lastErr = fmt.Errorf("Claude API error (attempt %d/%d): %w", attempt, maxRetries, err)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return nil, &GenerationError{Op: "complete", Err: ctx.Err()}
				case <-time.After(backoff):
				}
				backoff *= time.Duration(backoffMult)
			}
			continue
		}

		text := extractText(message)
		if text == "" {
			lastErr = fmt.Errorf("empty response from Claude (attempt %d/%d)", attempt, maxRetries)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return nil, &GenerationError{Op: "complete", Err: ctx.Err()}
				case <-time.After(backoff):
				}
				backoff *= time.Duration(backoffMult)
			}
			continue
		}

		return &Completion{
			Text:         text,
			InputTokens:  message.Usage.InputTokens,
			OutputTokens: message.Usage.OutputTokens,
		}, nil
	}

	return nil, &GenerationError{Op: "complete", Err: lastErr}
}

func extractText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "")
}
