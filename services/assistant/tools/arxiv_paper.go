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

	"github.com/researchpal/researchpal/services/arxiv"
	"github.com/researchpal/researchpal/services/assistant/arxivid"
)

// ArxivPaperTool fetches the full metadata record for one paper
// identified somewhere in the user's request.
type ArxivPaperTool struct {
	catalog Catalog
}

func NewArxivPaperTool(catalog Catalog) *ArxivPaperTool {
	return &ArxivPaperTool{catalog: catalog}
}

func (t *ArxivPaperTool) Name() string { return ArxivPaperName }

func (t *ArxivPaperTool) Description() string {
	return "GET FULL DETAILS FOR ONE SPECIFIC PAPER. Use this tool when the user asks " +
		"about a single paper identified by an arXiv ID or URL. Pass the user's words " +
		"unmodified; the tool extracts the identifier itself."
}

func (t *ArxivPaperTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"word": map[string]any{
				"type":        "string",
				"description": "The user's request containing an arXiv identifier or URL.",
			},
		},
		"required": []string{"word"},
	}
}

// Invoke resolves an identifier from the free-text argument and looks it
// up in the catalog. The lookup is tried twice: first with the
// normalized identifier, then with the original extraction untouched,
// since era normalization occasionally guesses the wrong century.
func (t *ArxivPaperTool) Invoke(ctx context.Context, args map[string]any) string {
	word := strings.TrimSpace(stringArg(args, "word"))
	slog.Info("arxiv paper tool called", "word", word)

	raw, ok := arxivid.Extract(word)
	if !ok {
		if word == "" {
			return "No arXiv identifier provided. Please include a paper ID such as 1706.03762."
		}
		raw = word
	}
	normalized := arxivid.Normalize(raw)

	entry, err := t.lookupOne(ctx, normalized)
	if err != nil {
		slog.Error("arXiv paper fetch failed", "id", normalized, "error", err)
		return fmt.Sprintf("Failed to fetch paper %s: %v", normalized, err)
	}
	if entry == nil && normalized != raw {
		entry, err = t.lookupOne(ctx, raw)
		if err != nil {
			slog.Error("arXiv paper fetch failed", "id", raw, "error", err)
			return fmt.Sprintf("Failed to fetch paper %s: %v", raw, err)
		}
	}
	if entry == nil {
		return fmt.Sprintf("No paper found on arXiv with ID %s. The identifier may be incorrect or the paper may not exist.", normalized)
	}
	return formatEntry(entry)
}

func (t *ArxivPaperTool) lookupOne(ctx context.Context, id string) (*arxiv.Entry, error) {
	entries, err := t.catalog.Lookup(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func formatEntry(e *arxiv.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", e.Title)
	fmt.Fprintf(&b, "Authors: %s\n", strings.Join(e.Authors, ", "))
	fmt.Fprintf(&b, "arXiv ID: %s\n", e.ID)
	fmt.Fprintf(&b, "Published: %s\n", e.Published)
	if len(e.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(e.Categories, ", "))
	}
	if e.JournalRef != "" {
		fmt.Fprintf(&b, "Journal Reference: %s\n", e.JournalRef)
	}
	if e.DOI != "" {
		fmt.Fprintf(&b, "DOI: %s\n", e.DOI)
	}
	if e.PDFURL != "" {
		fmt.Fprintf(&b, "PDF: %s\n", e.PDFURL)
	}
	if e.EntryURL != "" {
		fmt.Fprintf(&b, "Link: %s\n", e.EntryURL)
	}
	fmt.Fprintf(&b, "Abstract: %s", e.Summary)
	return b.String()
}
