// Package config holds model selection, pricing, and environment loading.
// Pricing is deliberately deterministic: the core depends on cost numbers,
// so the table lives here, not near the API client.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Task names a distinct model workload with its own cost/quality tradeoff.
type Task string

const (
	// TaskPersonaGeneration is one-time, quality-sensitive work.
	TaskPersonaGeneration Task = "persona_generation"
	// TaskEvaluation runs repeatedly per pitch; cheap model.
	TaskEvaluation Task = "evaluation"
	// TaskConversation runs per chat turn; cheap model.
	TaskConversation Task = "conversation"
)

var modelForTask = map[Task]string{
	TaskPersonaGeneration: "claude-sonnet-4-5-20250929",
	TaskEvaluation:        "claude-haiku-4-5-20251001",
	TaskConversation:      "claude-haiku-4-5-20251001",
}

// tokenPrice is USD per 1000 tokens.
type tokenPrice struct {
	Input  float64
	Output float64
}

var costPer1KTokens = map[string]tokenPrice{
	"claude-sonnet-4-5-20250929": {Input: 0.003, Output: 0.015},
	"claude-haiku-4-5-20251001":  {Input: 0.001, Output: 0.005},
}

// ModelFor returns the model ID configured for a task. Unknown tasks fall
// back to the conversation model.
func ModelFor(task Task) string {
	if m, ok := modelForTask[task]; ok {
		return m
	}
	return modelForTask[TaskConversation]
}

// EstimateCost prices a call from its token counts. Unknown models cost
// zero rather than erroring — cost tracking is advisory.
func EstimateCost(model string, inputTokens, outputTokens int64) float64 {
	p, ok := costPer1KTokens[model]
	if !ok {
		return 0
	}
	return p.Input*float64(inputTokens)/1000 + p.Output*float64(outputTokens)/1000
}

// LoadEnv reads .env (if present) into the environment. Missing .env is
// fine; real env vars win either way. Call once at process start.
func LoadEnv() {
	_ = godotenv.Load()
}

// RequireAPIKey verifies the Anthropic key is available. Only commands that
// reach the language model need it; the scoring paths run without.
func RequireAPIKey() error {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set — add it to your environment or a .env file")
	}
	return nil
}

// EnvOr returns the env var value or a fallback when unset.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
