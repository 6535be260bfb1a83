// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchpal/researchpal/services/assistant/datatypes"
)

func newTestAnthropicClient(serverURL string) *AnthropicClient {
	return &AnthropicClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		apiKey:     "test-key",
		model:      "claude-test",
		baseURL:    serverURL,
	}
}

func TestAnthropicChat_TextResponse(t *testing.T) {
	var captured anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := anthropicResponse{
			Type:    "message",
			Role:    "assistant",
			Content: []contentBlock{{Type: "text", Text: "Hello from Claude"}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)
	result, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hi"},
	}, GenerationParams{})

	require.NoError(t, err)
	assert.Equal(t, "Hello from Claude", result.Content)
	assert.Empty(t, result.ToolCalls)

	// The system turn travels as the top-level system field, not a message.
	assert.Equal(t, "be helpful", captured.System)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
}

func TestAnthropicChat_ToolUseResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := anthropicResponse{
			Type: "message",
			Role: "assistant",
			Content: []contentBlock{
				{Type: "text", Text: "Let me search."},
				{Type: "tool_use", ID: "toolu_1", Name: "knowledge_base",
					Input: json.RawMessage(`{"query":"transformers"}`)},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)
	result, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: "user", Content: "find papers on transformers"},
	}, GenerationParams{Tools: []ToolDefinition{{Name: "knowledge_base", Parameters: map[string]any{"type": "object"}}}})

	require.NoError(t, err)
	assert.Equal(t, "Let me search.", result.Content)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "toolu_1", result.ToolCalls[0].ID)
	assert.Equal(t, "knowledge_base", result.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"transformers"}`, result.ToolCalls[0].Arguments)
}

func TestAnthropicChat_ToolResultMapping(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		resp := anthropicResponse{
			Content: []contentBlock{{Type: "text", Text: "done"}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)
	_, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: "user", Content: "find papers"},
		{Role: "assistant", ToolCalls: []datatypes.ToolCall{
			{ID: "toolu_1", Name: "knowledge_base", Arguments: `{"query":"x"}`},
		}},
		{Role: "tool", ToolCallID: "toolu_1", Content: "1. Title: T"},
	}, GenerationParams{})
	require.NoError(t, err)

	messages := captured["messages"].([]any)
	require.Len(t, messages, 3)

	// Assistant turn renders its tool calls as tool_use blocks.
	asst := messages[1].(map[string]any)
	blocks := asst["content"].([]any)
	require.Len(t, blocks, 1)
	assert.Equal(t, "tool_use", blocks[0].(map[string]any)["type"])

	// Tool results travel as user turns with a tool_result block.
	toolMsg := messages[2].(map[string]any)
	assert.Equal(t, "user", toolMsg["role"])
	resultBlock := toolMsg["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "tool_result", resultBlock["type"])
	assert.Equal(t, "toolu_1", resultBlock["tool_use_id"])
}

func TestAnthropicChat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		resp := anthropicResponse{
			Type:  "error",
			Error: &anthropicError{Type: "invalid_request_error", Message: "max_tokens required"},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)
	_, err := client.Chat(context.Background(), []datatypes.Message{{Role: "user", Content: "hi"}}, GenerationParams{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_request_error")
}

func TestAnthropicGenerate_WrapsChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := anthropicResponse{Content: []contentBlock{{Type: "text", Text: "generated"}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)
	out, err := client.Generate(context.Background(), "prompt", GenerationParams{})

	require.NoError(t, err)
	assert.Equal(t, "generated", out)
}
