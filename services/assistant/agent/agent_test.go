// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchpal/researchpal/services/arxiv"
	"github.com/researchpal/researchpal/services/assistant/datatypes"
	"github.com/researchpal/researchpal/services/assistant/memory"
	"github.com/researchpal/researchpal/services/assistant/tools"
	"github.com/researchpal/researchpal/services/llm"
)

// scriptedLLM returns canned turns in order and records what it was
// asked.
type scriptedLLM struct {
	turns    []llm.ChatResult
	err      error
	requests [][]datatypes.Message
}

func (s *scriptedLLM) Generate(_ context.Context, prompt string, _ llm.GenerationParams) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedLLM) Chat(_ context.Context, messages []datatypes.Message, _ llm.GenerationParams) (*llm.ChatResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.requests = append(s.requests, messages)
	if len(s.turns) == 0 {
		return &llm.ChatResult{Content: "out of script"}, nil
	}
	turn := s.turns[0]
	s.turns = s.turns[1:]
	return &turn, nil
}

type stubRetriever struct {
	papers []tools.RetrievedPaper
	calls  int
}

func (s *stubRetriever) Query(_ context.Context, query string, topK int) ([]tools.RetrievedPaper, error) {
	s.calls++
	return s.papers, nil
}

type stubCatalog struct {
	byID       map[string][]arxiv.Entry
	searchHits []arxiv.Entry
	searched   []string
	lookedUp   []string
}

func (s *stubCatalog) Search(_ context.Context, query string, maxResults int, newestFirst bool) ([]arxiv.Entry, error) {
	s.searched = append(s.searched, query)
	return s.searchHits, nil
}

func (s *stubCatalog) Lookup(_ context.Context, ids []string) ([]arxiv.Entry, error) {
	s.lookedUp = append(s.lookedUp, ids...)
	return s.byID[ids[0]], nil
}

func toolCall(name, key, value string) datatypes.ToolCall {
	args, _ := json.Marshal(map[string]string{key: value})
	return datatypes.ToolCall{ID: "call-1", Name: name, Arguments: string(args)}
}

func newTestAssistant(model llm.LLMClient, retriever tools.Retriever, catalog tools.Catalog) (*Assistant, *memory.InMemoryTurnStore) {
	registry := tools.NewRegistry(
		tools.NewKnowledgeBaseTool(retriever),
		tools.NewArxivMetadataTool(catalog),
		tools.NewArxivPaperTool(catalog),
	)
	store := memory.NewInMemoryTurnStore()
	return NewAssistant(model, registry, store), store
}

func TestProcess_TopicSearchFlow(t *testing.T) {
	retriever := &stubRetriever{papers: []tools.RetrievedPaper{
		{ArxivID: "1706.03762v5", Title: "Attention Is All You Need", Authors: "Vaswani", Abstract: "We propose..."},
	}}
	model := &scriptedLLM{turns: []llm.ChatResult{
		{ToolCalls: []datatypes.ToolCall{toolCall(tools.KnowledgeBaseName, "query", "transformers")}},
		{Content: "Here is what I found.assistant"},
	}}
	assistant, store := newTestAssistant(model, retriever, &stubCatalog{})

	answer, err := assistant.Process(context.Background(), "s1", "Find papers on transformers")

	require.NoError(t, err)
	assert.Equal(t, "Here is what I found.", answer)
	assert.Equal(t, 1, retriever.calls)

	turns, err := store.History(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, memory.RoleUser, turns[0].Role)
	assert.Equal(t, "Find papers on transformers", turns[0].Text)
	assert.Equal(t, memory.RoleAssistant, turns[1].Role)
}

func TestProcess_TopicNeverRoutesToDetailFetch(t *testing.T) {
	retriever := &stubRetriever{papers: []tools.RetrievedPaper{
		{ArxivID: "1", Title: "T", Authors: "A", Abstract: "S"},
	}}
	catalog := &stubCatalog{}
	// The model wrongly picks the detail tool for a topic utterance.
	model := &scriptedLLM{turns: []llm.ChatResult{
		{ToolCalls: []datatypes.ToolCall{toolCall(tools.ArxivPaperName, "word", "transformers")}},
		{Content: "done"},
	}}
	assistant, _ := newTestAssistant(model, retriever, catalog)

	_, err := assistant.Process(context.Background(), "s1", "Find papers on transformers")

	require.NoError(t, err)
	assert.Equal(t, 1, retriever.calls, "filter must redirect to the knowledge base")
	assert.Empty(t, catalog.lookedUp, "detail fetch must not run for a topic utterance")
}

func TestProcess_DetailFetchUsesResolvedIdentifier(t *testing.T) {
	catalog := &stubCatalog{byID: map[string][]arxiv.Entry{
		"1706.03762v5": {{ID: "1706.03762v5", Title: "Attention Is All You Need", Summary: "x"}},
	}}
	// The model passes the title; the filter must replace it with the
	// identifier resolved from session history.
	model := &scriptedLLM{turns: []llm.ChatResult{
		{ToolCalls: []datatypes.ToolCall{toolCall(tools.ArxivPaperName, "word", "Attention Is All You Need")}},
		{Content: "summary composed"},
	}}
	assistant, store := newTestAssistant(model, &stubRetriever{}, catalog)
	require.NoError(t, store.Append(context.Background(), "s1",
		memory.Turn{Role: memory.RoleUser, Text: "Find papers on transformers"}))
	require.NoError(t, store.Append(context.Background(), "s1",
		memory.Turn{Role: memory.RoleAssistant, Text: sampleListing}))

	answer, err := assistant.Process(context.Background(), "s1", "Tell me more about the first paper")

	require.NoError(t, err)
	assert.Equal(t, "summary composed", answer)
	require.NotEmpty(t, catalog.lookedUp)
	assert.Equal(t, "1706.03762v5", catalog.lookedUp[0])
}

func TestProcess_MetadataSuppressedAfterKBHit(t *testing.T) {
	retriever := &stubRetriever{papers: []tools.RetrievedPaper{
		{ArxivID: "1706.03762", Title: "Attention", Authors: "V", Abstract: "S"},
	}}
	catalog := &stubCatalog{}
	model := &scriptedLLM{turns: []llm.ChatResult{
		{ToolCalls: []datatypes.ToolCall{toolCall(tools.KnowledgeBaseName, "query", "attention")}},
		{ToolCalls: []datatypes.ToolCall{toolCall(tools.ArxivMetadataName, "word", "attention")}},
		{Content: "answer"},
	}}
	assistant, _ := newTestAssistant(model, retriever, catalog)

	_, err := assistant.Process(context.Background(), "s1", "Find papers on attention")

	require.NoError(t, err)
	assert.Empty(t, catalog.searched, "metadata fallback must not fire after real knowledge base results")
}

func TestProcess_MetadataSuppressedInParallelRound(t *testing.T) {
	retriever := &stubRetriever{papers: []tools.RetrievedPaper{
		{ArxivID: "1706.03762", Title: "Attention", Authors: "V", Abstract: "S"},
	}}
	catalog := &stubCatalog{}
	kb := toolCall(tools.KnowledgeBaseName, "query", "attention")
	md := toolCall(tools.ArxivMetadataName, "word", "attention")
	md.ID = "call-2"
	// Both picks arrive in the same round.
	model := &scriptedLLM{turns: []llm.ChatResult{
		{ToolCalls: []datatypes.ToolCall{kb, md}},
		{Content: "answer"},
	}}
	assistant, _ := newTestAssistant(model, retriever, catalog)

	_, err := assistant.Process(context.Background(), "s1", "Find papers on attention")

	require.NoError(t, err)
	assert.Equal(t, 1, retriever.calls)
	assert.Empty(t, catalog.searched, "metadata fallback must not fire alongside a real knowledge base hit")

	// The skipped call still gets a result message for its call id.
	require.Len(t, model.requests, 2)
	msgs := model.requests[1]
	last := msgs[len(msgs)-1]
	assert.Equal(t, "tool", last.Role)
	assert.Equal(t, "call-2", last.ToolCallID)
	assert.NotEmpty(t, last.Content)
}

func TestProcess_MetadataSuppressedWhenOrderedBeforeKB(t *testing.T) {
	retriever := &stubRetriever{papers: []tools.RetrievedPaper{
		{ArxivID: "1706.03762", Title: "Attention", Authors: "V", Abstract: "S"},
	}}
	catalog := &stubCatalog{}
	md := toolCall(tools.ArxivMetadataName, "word", "attention")
	kb := toolCall(tools.KnowledgeBaseName, "query", "attention")
	kb.ID = "call-2"
	model := &scriptedLLM{turns: []llm.ChatResult{
		{ToolCalls: []datatypes.ToolCall{md, kb}},
		{Content: "answer"},
	}}
	assistant, _ := newTestAssistant(model, retriever, catalog)

	_, err := assistant.Process(context.Background(), "s1", "Find papers on attention")

	require.NoError(t, err)
	assert.Equal(t, 1, retriever.calls)
	assert.Empty(t, catalog.searched, "call order within the round must not defeat suppression")
}

func TestProcess_MetadataAllowedWhenKBEmpty(t *testing.T) {
	catalog := &stubCatalog{searchHits: []arxiv.Entry{{ID: "1", Title: "T"}}}
	model := &scriptedLLM{turns: []llm.ChatResult{
		{ToolCalls: []datatypes.ToolCall{toolCall(tools.KnowledgeBaseName, "query", "obscure")}},
		{ToolCalls: []datatypes.ToolCall{toolCall(tools.ArxivMetadataName, "word", "obscure")}},
		{Content: "answer"},
	}}
	assistant, _ := newTestAssistant(model, &stubRetriever{}, catalog)

	_, err := assistant.Process(context.Background(), "s1", "Find papers on obscure")

	require.NoError(t, err)
	assert.Equal(t, []string{"obscure"}, catalog.searched)
}

func TestProcess_OracleErrorIsFatal(t *testing.T) {
	model := &scriptedLLM{err: errors.New("backend unavailable")}
	assistant, store := newTestAssistant(model, &stubRetriever{}, &stubCatalog{})

	_, err := assistant.Process(context.Background(), "s1", "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error processing request")

	turns, herr := store.History(context.Background(), "s1")
	require.NoError(t, herr)
	assert.Empty(t, turns, "failed turns are not recorded")
}

func TestProcess_HistoryIsSentToModel(t *testing.T) {
	model := &scriptedLLM{turns: []llm.ChatResult{{Content: "hi again"}}}
	assistant, store := newTestAssistant(model, &stubRetriever{}, &stubCatalog{})
	require.NoError(t, store.Append(context.Background(), "s1",
		memory.Turn{Role: memory.RoleUser, Text: "earlier question"}))
	require.NoError(t, store.Append(context.Background(), "s1",
		memory.Turn{Role: memory.RoleAssistant, Text: "earlier answer"}))

	_, err := assistant.Process(context.Background(), "s1", "follow-up")

	require.NoError(t, err)
	require.Len(t, model.requests, 1)
	msgs := model.requests[0]
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "earlier question", msgs[1].Content)
	assert.Equal(t, "earlier answer", msgs[2].Content)
	assert.Equal(t, "follow-up", msgs[3].Content)
}
