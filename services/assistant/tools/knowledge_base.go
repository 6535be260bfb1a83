// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var kbTracer = otel.Tracer("researchpal.assistant.tools")

// knowledgeBaseTopK is the fixed number of hits rendered per search.
const knowledgeBaseTopK = 5

// summaryPreviewLen caps the abstract preview in the numbered list.
const summaryPreviewLen = 300

// RetrievedPaper is one semantic hit from the knowledge store.
type RetrievedPaper struct {
	ArxivID  string
	Title    string
	Authors  string
	Abstract string
}

// Retriever is the semantic knowledge store behind the knowledge_base
// tool. Implemented by WeaviateRetriever in production and by fakes in
// tests.
type Retriever interface {
	Query(ctx context.Context, query string, topK int) ([]RetrievedPaper, error)
}

// KnowledgeBaseTool searches the local knowledge base for papers
// semantically similar to a topic query and renders them as a numbered
// list the response parser understands.
type KnowledgeBaseTool struct {
	retriever Retriever
}

func NewKnowledgeBaseTool(retriever Retriever) *KnowledgeBaseTool {
	return &KnowledgeBaseTool{retriever: retriever}
}

func (t *KnowledgeBaseTool) Name() string { return KnowledgeBaseName }

func (t *KnowledgeBaseTool) Description() string {
	return "SEARCH FOR PAPERS BY TOPIC. Use this tool when the user asks to find papers " +
		"on a specific topic or subject. Returns a list of research papers from the " +
		"knowledge base that are semantically similar to the query. Each paper includes " +
		"id, title, authors, and summary."
}

func (t *KnowledgeBaseTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The topic to search the knowledge base for.",
			},
		},
		"required": []string{"query"},
	}
}

// Invoke runs the semantic search. An empty or whitespace-only query
// short-circuits with the no-query sentinel before the retriever is
// touched.
func (t *KnowledgeBaseTool) Invoke(ctx context.Context, args map[string]any) string {
	ctx, span := kbTracer.Start(ctx, "KnowledgeBaseTool.Invoke")
	defer span.End()

	query := strings.TrimSpace(stringArg(args, "query"))
	if query == "" {
		return NoQueryMessage
	}
	span.SetAttributes(attribute.String("query", query))
	slog.Info("knowledge_base tool called", "query", query)

	docs, err := t.retriever.Query(ctx, query, knowledgeBaseTopK)
	if err != nil {
		span.RecordError(err)
		slog.Error("knowledge base search failed", "query", query, "error", err)
		return fmt.Sprintf("Error searching knowledge base: %v", err)
	}
	if len(docs) == 0 {
		return NoPapersMessage
	}

	var sb strings.Builder
	for i, doc := range docs {
		summary := truncateOnRune(doc.Abstract, summaryPreviewLen)
		fmt.Fprintf(&sb, "%d. Title: %s\n", i+1, doc.Title)
		fmt.Fprintf(&sb, "   Authors: %s\n", doc.Authors)
		fmt.Fprintf(&sb, "   arXiv ID: %s\n", doc.ArxivID)
		fmt.Fprintf(&sb, "   Summary: %s...\n\n", summary)
	}
	slog.Info("knowledge_base tool returning papers", "count", len(docs))
	return strings.TrimSuffix(sb.String(), "\n")
}

// truncateOnRune caps s at max bytes without splitting a multi-byte
// rune across the cut.
func truncateOnRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
