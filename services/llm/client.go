package llm

import (
	"context"

	"github.com/researchpal/researchpal/services/assistant/datatypes"
)

// ToolDefinition describes one callable tool advertised to the model.
// Parameters is a JSON Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type GenerationParams struct {
	Temperature *float32         `json:"temperature"`
	TopK        *int             `json:"top_k"`
	TopP        *float32         `json:"top_p"`
	MaxTokens   *int             `json:"max_tokens"`
	Stop        []string         `json:"stop"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
}

// ChatResult is one model turn. ToolCalls is non-empty when the model
// wants tools executed before it can answer.
type ChatResult struct {
	Content   string
	ToolCalls []datatypes.ToolCall
}

// LLMClient defines the standard interface for any LLM backend.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (*ChatResult, error)
}
