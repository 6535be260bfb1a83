// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tools holds the assistant's closed set of callable tools.
//
// Tools never return Go errors across the agent boundary: every failure
// mode (bad input, network trouble, empty result) renders as a
// descriptive string so the reasoning model can still compose a coherent
// answer from it.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/researchpal/researchpal/services/llm"
)

// Tool names form the closed dispatch set known to the router.
const (
	KnowledgeBaseName = "knowledge_base"
	ArxivMetadataName = "get_metadata_information_from_arxiv"
	ArxivPaperName    = "get_information_from_arxiv"
)

// Sentinel outputs recognized by the router and the response parser.
const (
	NoQueryMessage  = "No query provided. Please specify a topic to search for."
	NoPapersMessage = "No relevant papers found."
)

// Tool is one callable capability. Invoke takes the parsed argument
// object and always returns output text, never an error.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Invoke(ctx context.Context, args map[string]any) string
}

// Registry holds the tool set and dispatches calls by name.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools = append(r.tools, t)
		r.byName[t.Name()] = t
	}
	return r
}

// Get returns the named tool, or nil if unknown.
func (r *Registry) Get(name string) Tool {
	return r.byName[name]
}

// Specs renders the registry as tool definitions for the LLM request.
func (r *Registry) Specs() []llm.ToolDefinition {
	specs := make([]llm.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		specs = append(specs, llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return specs
}

// Invoke parses the raw JSON arguments and dispatches to the named tool.
// Unknown tools and malformed arguments come back as descriptive text,
// consistent with the no-errors-across-the-boundary rule.
func (r *Registry) Invoke(ctx context.Context, name, argsJSON string) string {
	tool := r.Get(name)
	if tool == nil {
		return fmt.Sprintf("Unknown tool: %s", name)
	}
	args := map[string]any{}
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return fmt.Sprintf("Invalid arguments for %s: %v", name, err)
		}
	}
	return tool.Invoke(ctx, args)
}

// stringArg reads a string argument by key, tolerating absent keys.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
