// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package agent runs the tool-routing conversation loop: read session
// history, let the reasoning model pick tools under a deterministic
// routing filter, execute them, and reconcile the composed answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/researchpal/researchpal/services/assistant/datatypes"
	"github.com/researchpal/researchpal/services/assistant/memory"
	"github.com/researchpal/researchpal/services/assistant/tools"
	"github.com/researchpal/researchpal/services/llm"
)

var tracer = otel.Tracer("researchpal.assistant.agent")

// maxToolRounds bounds the model's tool-call iterations per turn.
const maxToolRounds = 5

// metadataSuppressedMessage stands in for a metadata call that was
// skipped because the knowledge base already answered. Every requested
// tool call still needs a result message for its call id.
const metadataSuppressedMessage = "Skipped: the knowledge base already returned relevant papers for this request."

// Assistant wires the reasoning model, the tool registry and the
// session turn log into one conversational agent.
type Assistant struct {
	llm   llm.LLMClient
	tools *tools.Registry
	store memory.TurnStore
}

func NewAssistant(client llm.LLMClient, registry *tools.Registry, store memory.TurnStore) *Assistant {
	return &Assistant{llm: client, tools: registry, store: store}
}

// Process handles one user message in a session and returns the cleaned
// answer. Tool failures are folded into the conversation as tool output
// text; only a failure of the model call itself is returned as an
// error.
func (a *Assistant) Process(ctx context.Context, sessionID, message string) (string, error) {
	ctx, span := tracer.Start(ctx, "Assistant.Process")
	defer span.End()
	span.SetAttributes(attribute.String("session_id", sessionID))

	history, err := a.store.History(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to read session history, continuing without it",
			"sessionId", sessionID, "error", err)
		history = nil
	}

	route := Classify(message, history)
	slog.Info("Routed utterance", "sessionId", sessionID, "route", route.Kind, "id", route.ID)

	messages := make([]datatypes.Message, 0, len(history)+2)
	messages = append(messages, datatypes.Message{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, datatypes.Message{Role: turn.Role, Content: turn.Text})
	}
	messages = append(messages, datatypes.Message{Role: memory.RoleUser, Content: message})

	params := llm.GenerationParams{Tools: a.tools.Specs()}

	answer, err := a.runToolLoop(ctx, messages, params, route)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "oracle invocation failed")
		return "", fmt.Errorf("error processing request: %w", err)
	}

	cleaned := CleanResponse(answer)
	a.appendTurns(ctx, sessionID, message, cleaned)
	return cleaned, nil
}

// runToolLoop drives the model until it answers without requesting
// tools, or the round budget runs out.
func (a *Assistant) runToolLoop(ctx context.Context, messages []datatypes.Message,
	params llm.GenerationParams, route Route) (string, error) {

	kbFoundResults := false

	for round := 0; round < maxToolRounds; round++ {
		result, err := a.llm.Chat(ctx, messages, params)
		if err != nil {
			return "", err
		}
		if len(result.ToolCalls) == 0 {
			return result.Content, nil
		}

		calls := a.filterToolCalls(result.ToolCalls, route, round, kbFoundResults)

		messages = append(messages, datatypes.Message{
			Role:      memory.RoleAssistant,
			Content:   result.Content,
			ToolCalls: calls,
		})

		// The filter only sees knowledge base results from earlier
		// rounds. Run the knowledge base calls of this round first so a
		// metadata call issued in parallel, in either order, is still
		// checked against their outcome.
		kbOutputs := make(map[string]string)
		for _, call := range calls {
			if call.Name != tools.KnowledgeBaseName {
				continue
			}
			output := a.tools.Invoke(ctx, call.Name, call.Arguments)
			kbOutputs[call.ID] = output
			if isRealKBResult(output) {
				kbFoundResults = true
			}
		}

		for _, call := range calls {
			var output string
			switch {
			case call.Name == tools.KnowledgeBaseName:
				output = kbOutputs[call.ID]
			case call.Name == tools.ArxivMetadataName && kbFoundResults:
				slog.Info("Suppressing metadata fallback, knowledge base already answered")
				output = metadataSuppressedMessage
			default:
				output = a.tools.Invoke(ctx, call.Name, call.Arguments)
			}
			messages = append(messages, datatypes.Message{
				Role:       "tool",
				Content:    output,
				ToolCallID: call.ID,
			})
		}
	}

	// Budget exhausted with the model still asking for tools. Force a
	// final composition pass without tool specs.
	final := params
	final.Tools = nil
	result, err := a.llm.Chat(ctx, messages, final)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// filterToolCalls enforces the routing rules on the model's picks:
// topic utterances never reach the detail tool, detail utterances carry
// the resolved identifier instead of whatever the model passed, and the
// external metadata fallback is suppressed once the knowledge base has
// produced real results for this turn.
func (a *Assistant) filterToolCalls(calls []datatypes.ToolCall, route Route,
	round int, kbFoundResults bool) []datatypes.ToolCall {

	out := make([]datatypes.ToolCall, 0, len(calls))
	for _, call := range calls {
		switch {
		case route.Kind == RouteTopic && call.Name == tools.ArxivPaperName:
			slog.Warn("Overriding detail-fetch pick for a topic utterance", "query", route.Query)
			call.Name = tools.KnowledgeBaseName
			call.Arguments = marshalArgs("query", route.Query)
		case route.Kind == RouteDetail && round == 0 && call.Name == tools.ArxivPaperName:
			call.Arguments = marshalArgs("word", route.ID)
		case route.Kind == RouteDetail && round == 0 && call.Name == tools.KnowledgeBaseName:
			slog.Warn("Overriding topic-search pick for a detail utterance", "id", route.ID)
			call.Name = tools.ArxivPaperName
			call.Arguments = marshalArgs("word", route.ID)
		case kbFoundResults && call.Name == tools.ArxivMetadataName:
			slog.Info("Suppressing metadata fallback, knowledge base already answered")
			continue
		}
		out = append(out, call)
	}
	return out
}

// appendTurns records both sides of the exchange. Persistence trouble is
// logged, not surfaced: the answer was already composed.
func (a *Assistant) appendTurns(ctx context.Context, sessionID, question, answer string) {
	if err := a.store.Append(ctx, sessionID, memory.Turn{Role: memory.RoleUser, Text: question}); err != nil {
		slog.Error("Failed to append user turn", "sessionId", sessionID, "error", err)
	}
	if answer == "" {
		return
	}
	if err := a.store.Append(ctx, sessionID, memory.Turn{Role: memory.RoleAssistant, Text: answer}); err != nil {
		slog.Error("Failed to append assistant turn", "sessionId", sessionID, "error", err)
	}
}

// isRealKBResult reports whether knowledge base output is an actual
// listing rather than a sentinel or error string.
func isRealKBResult(output string) bool {
	return output != tools.NoPapersMessage &&
		output != tools.NoQueryMessage &&
		numberedTitleRe.MatchString(output)
}

func marshalArgs(key, value string) string {
	b, _ := json.Marshal(map[string]string{key: value})
	return string(b)
}
