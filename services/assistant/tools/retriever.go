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

	"github.com/researchpal/researchpal/services/assistant/datatypes"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
)

// EmptyRetriever serves lightweight mode, where no knowledge base is
// configured. Every query yields zero hits, so the agent falls back to
// the external catalog tools.
type EmptyRetriever struct{}

func (EmptyRetriever) Query(_ context.Context, _ string, _ int) ([]RetrievedPaper, error) {
	return nil, nil
}

// WeaviateRetriever implements Retriever over the Paper class using
// nearText search. Embedding is handled by the text2vec module
// configured on the Weaviate instance.
type WeaviateRetriever struct {
	client *weaviate.Client
}

func NewWeaviateRetriever(client *weaviate.Client) *WeaviateRetriever {
	return &WeaviateRetriever{client: client}
}

// Query returns the topK papers most semantically similar to query.
func (r *WeaviateRetriever) Query(ctx context.Context, query string, topK int) ([]RetrievedPaper, error) {
	nearText := r.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	fields := []graphql.Field{
		{Name: "arxiv_id"},
		{Name: "title"},
		{Name: "authors"},
		{Name: "abstract"},
		{Name: "_additional", Fields: []graphql.Field{
			{Name: "certainty"},
		}},
	}

	result, err := r.client.GraphQL().Get().
		WithClassName("Paper").
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate search failed: %w", err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.PaperQueryResponse](result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	papers := make([]RetrievedPaper, 0, len(parsed.Get.Paper))
	for _, hit := range parsed.Get.Paper {
		papers = append(papers, RetrievedPaper{
			ArxivID:  hit.ArxivID,
			Title:    hit.Title,
			Authors:  hit.Authors,
			Abstract: hit.Abstract,
		})
	}
	return papers, nil
}
