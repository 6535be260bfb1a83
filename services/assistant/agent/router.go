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
	"regexp"
	"strconv"
	"strings"

	"github.com/researchpal/researchpal/services/assistant/arxivid"
	"github.com/researchpal/researchpal/services/assistant/memory"
)

// RouteKind classifies an utterance for the deterministic filter that
// wraps the reasoning model. The model still picks tools on its own, but
// the filter overrides picks that would violate the routing rules.
type RouteKind int

const (
	// RouteOpen leaves tool selection entirely to the model.
	RouteOpen RouteKind = iota
	// RouteTopic is a topic search. Such utterances must never reach
	// the single-paper detail tool.
	RouteTopic
	// RouteDetail references a previously listed paper. The detail tool
	// must receive the resolved identifier, never a title string.
	RouteDetail
)

// Route is the router's verdict on one utterance.
type Route struct {
	Kind  RouteKind
	Query string // topic, for RouteTopic
	ID    string // resolved identifier, for RouteDetail
}

// topicRe matches "find/search/show/get/list papers on/about X" phrasings.
var topicRe = regexp.MustCompile(
	`(?i)\b(?:find|search(?:\s+for)?|show(?:\s+me)?|get|list|what)\b[^.?!]*?\bpapers?\b[^.?!]*?\b(?:on|about)\s+([^.?!]+)`)

// detailRe matches follow-up phrasings that reference a listed paper
// without naming an identifier.
var detailRe = regexp.MustCompile(
	`(?i)\b(?:tell me more|more about|details?|summar(?:y|ize)|what is)\b`)

// ordinalRe captures "paper 2" / "the first paper" style references.
var ordinalRe = regexp.MustCompile(
	`(?i)\b(?:paper\s+(\d+)|(first|second|third|fourth|fifth|1st|2nd|3rd|4th|5th)\s+paper)\b`)

var ordinalWords = map[string]int{
	"first": 1, "1st": 1,
	"second": 2, "2nd": 2,
	"third": 3, "3rd": 3,
	"fourth": 4, "4th": 4,
	"fifth": 5, "5th": 5,
}

// Classify routes one utterance given the session history. Topic
// phrasing wins over everything else; otherwise an explicit identifier,
// an ordinal reference, or a title match against the most recent listing
// yields a detail route with the identifier resolved from history.
func Classify(message string, history []memory.Turn) Route {
	if m := topicRe.FindStringSubmatch(message); m != nil {
		return Route{Kind: RouteTopic, Query: strings.TrimSpace(m[1])}
	}

	if id, ok := arxivid.Extract(message); ok {
		return Route{Kind: RouteDetail, ID: id}
	}

	if n, ok := ordinalReference(message); ok {
		if id, found := resolveByPosition(history, n); found {
			return Route{Kind: RouteDetail, ID: id}
		}
	}

	if detailRe.MatchString(message) {
		if id, found := resolveByTitle(history, message); found {
			return Route{Kind: RouteDetail, ID: id}
		}
	}

	return Route{Kind: RouteOpen}
}

func ordinalReference(message string) (int, bool) {
	m := ordinalRe.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		return n, err == nil && n > 0
	}
	n, ok := ordinalWords[strings.ToLower(m[2])]
	return n, ok
}

// resolveByPosition scans history backward for the most recent assistant
// turn carrying a paper listing and returns the identifier at the given
// 1-indexed position.
func resolveByPosition(history []memory.Turn, n int) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		turn := history[i]
		if turn.Role != memory.RoleAssistant || !numberedTitleRe.MatchString(firstListLine(turn.Text)) {
			continue
		}
		papers := ParsePaperList(turn.Text, "")
		if n <= len(papers) && isRealIdentifier(papers[n-1].ArxivID) {
			return papers[n-1].ArxivID, true
		}
	}
	return "", false
}

// resolveByTitle scans history backward for a listed paper whose title
// appears in the utterance.
func resolveByTitle(history []memory.Turn, message string) (string, bool) {
	lowered := strings.ToLower(message)
	for i := len(history) - 1; i >= 0; i-- {
		turn := history[i]
		if turn.Role != memory.RoleAssistant {
			continue
		}
		for _, p := range ParsePaperList(turn.Text, "") {
			if p.Title == "" || !isRealIdentifier(p.ArxivID) {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(p.Title)) {
				return p.ArxivID, true
			}
		}
	}
	return "", false
}

// firstListLine finds the first numbered line so resolveByPosition can
// cheaply skip turns that are not listings.
func firstListLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && numberedItemRe.MatchString(line) {
			return line
		}
	}
	return ""
}

// isRealIdentifier rejects the synthetic paper-<n> and placeholder ids
// assigned during parsing.
func isRealIdentifier(id string) bool {
	return id != "" && !strings.HasPrefix(id, "paper-") && id != "no-papers-found"
}
