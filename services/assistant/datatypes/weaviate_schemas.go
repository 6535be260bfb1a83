// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"context"
	"log"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

// GetPaperSchema returns the class holding the semantic knowledge base of
// arXiv paper records. Vectorization is delegated to the text2vec module
// configured on the Weaviate instance; the abstract carries the semantic
// signal, identifiers and titles are filterable metadata.
func GetPaperSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       "Paper",
		Description: "An arXiv paper record in the semantic knowledge base.",
		Vectorizer:  "text2vec-transformers",
		Properties: []*models.Property{
			{
				Name:            "arxiv_id",
				DataType:        []string{"text"},
				Description:     "The short arXiv identifier, e.g. 1707.04849v1.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "title",
				DataType:     []string{"text"},
				Description:  "The paper title.",
				Tokenization: "word",
			},
			{
				Name:        "authors",
				DataType:    []string{"text"},
				Description: "Comma-separated author names.",
			},
			{
				Name:         "abstract",
				DataType:     []string{"text"},
				Description:  "The paper abstract. Main vectorized content.",
				Tokenization: "word",
			},
			{
				Name:        "categories",
				DataType:    []string{"text[]"},
				Description: "arXiv subject categories, e.g. cs.LG.",
			},
			{
				Name:            "published",
				DataType:        []string{"text"},
				Description:     "Publication date, YYYY-MM-DD.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
		},
	}
}

// GetSessionSchema returns the class holding one object per chat session.
func GetSessionSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       "Session",
		Description: "A chat session.",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{
				Name:            "session_id",
				DataType:        []string{"text"},
				Description:     "The unique ID for the conversation session.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "timestamp",
				DataType:        []string{"number"},
				Description:     "Unix milliseconds when the session was created.",
				IndexFilterable: indexFilterable,
			},
		},
	}
}

// GetConversationTurnSchema returns the class holding the append-only
// per-session turn log. One object per turn, ordered by turn_number.
func GetConversationTurnSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       "ConversationTurn",
		Description: "A single user or assistant turn in a chat session.",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{
				Name:            "session_id",
				DataType:        []string{"text"},
				Description:     "The unique ID for the conversation session.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "role",
				DataType:        []string{"text"},
				Description:     "Either 'user' or 'assistant'.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "text",
				DataType:     []string{"text"},
				Description:  "The turn content.",
				Tokenization: "word",
			},
			{
				Name:            "timestamp",
				DataType:        []string{"number"},
				Description:     "Unix milliseconds when the turn was appended.",
				IndexFilterable: indexFilterable,
			},
			{
				Name:            "turn_number",
				DataType:        []string{"int"},
				Description:     "The sequential turn number within the session (1-indexed).",
				IndexFilterable: indexFilterable,
			},
			{
				Name:            "inSession",
				DataType:        []string{"Session"},
				Description:     "A direct graph link to the parent Session object.",
				IndexFilterable: indexFilterable,
			},
		},
	}
}

// EnsureWeaviateSchema creates any missing classes at startup. Creation
// failure is fatal: a half-initialized schema would fail every request
// anyway.
func EnsureWeaviateSchema(client *weaviate.Client) {
	schemaGetters := []func() *models.Class{
		GetSessionSchema,
		GetConversationTurnSchema,
		GetPaperSchema,
	}

	for _, getSchema := range schemaGetters {
		class := getSchema()
		slog.Info("Checking schema", "class", class.Class)

		_, err := client.Schema().ClassGetter().WithClassName(class.Class).Do(context.Background())
		if err != nil {
			slog.Info("Schema not found, creating it...", "class", class.Class)
			if err := client.Schema().ClassCreator().WithClass(class).Do(context.Background()); err != nil {
				log.Fatalf("Failed to create schema for class %s: %v", class.Class, err)
			}
			slog.Info("Successfully created schema", "class", class.Class)
		} else {
			slog.Info("Schema already exists", "class", class.Class)
		}
	}
}
