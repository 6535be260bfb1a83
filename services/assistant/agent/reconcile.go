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
	"fmt"
	"regexp"
	"strings"

	"github.com/researchpal/researchpal/services/assistant/datatypes"
	"github.com/researchpal/researchpal/services/assistant/tools"
)

// cleanupPatterns strips leaked tool-invocation syntax from composed
// answers. Ordered: call-like fragments carrying the role marker go
// first so a partially stripped call never leaves an orphan marker for
// the bare-token pattern to miss.
var cleanupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[[^\]]+\]assistant\s*`),
	regexp.MustCompile(`[a-zA-Z_]+\([^)]+\)assistant\s*`),
	regexp.MustCompile(`\[` + tools.ArxivPaperName + `\([^)]+\)\]`),
	regexp.MustCompile(`\[` + tools.KnowledgeBaseName + `\([^)]+\)\]`),
	regexp.MustCompile(`\[` + tools.ArxivMetadataName + `\([^)]+\)\]`),
	regexp.MustCompile(`\bassistant\b\s*`),
}

// CleanResponse removes tool-invocation artifacts the model sometimes
// leaks into its final answer and trims surrounding whitespace.
func CleanResponse(text string) string {
	for _, re := range cleanupPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

var numberedTitleRe = regexp.MustCompile(`^\d+\.\s*Title:`)
var numberedItemRe = regexp.MustCompile(`^\d+\.`)

// ParsePaperList re-parses the knowledge base tool's numbered-list text
// into structured records. Lines carrying a field label accumulate into
// the current record; an unlabeled non-empty line continues the current
// abstract, since summaries wrap. The result always holds at least one
// record: an empty or sentinel result substitutes a placeholder entry
// announcing the miss, and any record lacking an identifier gets a
// synthetic paper-<n> fallback.
func ParsePaperList(raw, query string) []datatypes.PaperRecord {
	var papers []datatypes.PaperRecord
	var current *datatypes.PaperRecord

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case numberedTitleRe.MatchString(line):
			if current != nil {
				papers = append(papers, *current)
			}
			_, title, _ := strings.Cut(line, "Title:")
			current = &datatypes.PaperRecord{
				Title: strings.TrimSpace(title),
				Date:  "2024-01-01",
			}
		case strings.HasPrefix(line, "Authors:"):
			if current != nil {
				current.Authors = splitAuthors(strings.TrimPrefix(line, "Authors:"))
			}
		case strings.HasPrefix(line, "arXiv ID:"):
			if current != nil {
				id := strings.TrimSpace(strings.TrimPrefix(line, "arXiv ID:"))
				current.ArxivID = id
				current.ID = id
			}
		case strings.HasPrefix(line, "Summary:"):
			if current != nil {
				current.Abstract = strings.TrimSpace(strings.TrimPrefix(line, "Summary:"))
			}
		case current != nil && !numberedItemRe.MatchString(line):
			if current.Abstract != "" {
				current.Abstract += " " + line
			}
		}
	}
	if current != nil {
		papers = append(papers, *current)
	}

	if len(papers) == 0 || strings.TrimSpace(raw) == tools.NoPapersMessage {
		return []datatypes.PaperRecord{{
			ID:       "no-papers-found",
			Title:    fmt.Sprintf("No papers found for '%s'", query),
			Abstract: "Try a different search term or check your spelling.",
			Date:     "2024-01-01",
		}}
	}

	for i := range papers {
		if papers[i].ID == "" {
			papers[i].ID = fmt.Sprintf("paper-%d", i+1)
			papers[i].ArxivID = papers[i].ID
		}
	}
	return papers
}

func splitAuthors(s string) []string {
	var authors []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}
