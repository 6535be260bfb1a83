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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/researchpal/researchpal/services/arxiv"
)

// metadataMaxResults caps the bulk fetch at the catalog's polite limit.
const metadataMaxResults = 10

// Catalog is the external paper metadata source. Satisfied by
// *arxiv.Client.
type Catalog interface {
	Search(ctx context.Context, query string, maxResults int, newestFirst bool) ([]arxiv.Entry, error)
	Lookup(ctx context.Context, ids []string) ([]arxiv.Entry, error)
}

// paperMetadata mirrors the record shape the original catalog tool
// produced; the oracle reads these as JSON.
type paperMetadata struct {
	Title      string   `json:"title,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Published  string   `json:"published,omitempty"`
	ArxivID    string   `json:"arxiv_id,omitempty"`
	PDFURL     string   `json:"pdf_url,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// ArxivMetadataTool fetches metadata for up to ten recent papers
// matching a query word from the external catalog.
type ArxivMetadataTool struct {
	catalog Catalog
}

func NewArxivMetadataTool(catalog Catalog) *ArxivMetadataTool {
	return &ArxivMetadataTool{catalog: catalog}
}

func (t *ArxivMetadataTool) Name() string { return ArxivMetadataName }

func (t *ArxivMetadataTool) Description() string {
	return "GET METADATA FOR MULTIPLE PAPERS. Use this tool to fetch and return metadata " +
		"for up to ten documents from arXiv that match a given query word, when the " +
		"knowledge base returns no papers."
}

func (t *ArxivMetadataTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"word": map[string]any{
				"type":        "string",
				"description": "The search query to find relevant documents on arXiv.",
			},
		},
		"required": []string{"word"},
	}
}

// Invoke searches the catalog newest-first and renders the results as a
// JSON list. Failures come back as a single-element list carrying an
// error marker, never as a thrown error.
func (t *ArxivMetadataTool) Invoke(ctx context.Context, args map[string]any) string {
	word := strings.TrimSpace(stringArg(args, "word"))
	slog.Info("arxiv metadata tool called", "word", word)

	entries, err := t.catalog.Search(ctx, word, metadataMaxResults, true)
	if err != nil {
		slog.Error("arXiv metadata fetch failed", "word", word, "error", err)
		return marshalMetadata([]paperMetadata{{Error: fmt.Sprintf("Failed to fetch papers: %v", err)}})
	}

	results := make([]paperMetadata, 0, len(entries))
	for _, e := range entries {
		results = append(results, paperMetadata{
			Title:      e.Title,
			Authors:    e.Authors,
			Summary:    e.Summary,
			Published:  e.Published,
			ArxivID:    e.ID,
			PDFURL:     e.PDFURL,
			Categories: e.Categories,
		})
	}
	return marshalMetadata(results)
}

func marshalMetadata(results []paperMetadata) string {
	out, err := json.Marshal(results)
	if err != nil {
		return fmt.Sprintf("Failed to render paper metadata: %v", err)
	}
	return string(out)
}
