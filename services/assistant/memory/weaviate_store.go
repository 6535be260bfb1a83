// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package memory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"go.opentelemetry.io/otel"

	"github.com/researchpal/researchpal/services/assistant/datatypes"
)

var memTracer = otel.Tracer("researchpal.assistant.memory")

// maxHistoryTurns bounds a single history read.
const maxHistoryTurns = 200

// WeaviateTurnStore persists the turn log as ConversationTurn objects,
// each graph-linked to its parent Session object via an inSession
// beacon.
type WeaviateTurnStore struct {
	client *weaviate.Client
}

func NewWeaviateTurnStore(client *weaviate.Client) *WeaviateTurnStore {
	return &WeaviateTurnStore{client: client}
}

// History returns the session's turns ordered by turn_number ascending.
func (s *WeaviateTurnStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	ctx, span := memTracer.Start(ctx, "WeaviateTurnStore.History")
	defer span.End()

	where := filters.Where().
		WithPath([]string{"session_id"}).
		WithOperator(filters.Equal).
		WithValueString(sessionID)

	sortBy := graphql.Sort{
		Path:  []string{"turn_number"},
		Order: graphql.Asc,
	}

	fields := []graphql.Field{
		{Name: "session_id"},
		{Name: "role"},
		{Name: "text"},
		{Name: "timestamp"},
		{Name: "turn_number"},
	}

	resp, err := s.client.GraphQL().Get().
		WithClassName("ConversationTurn").
		WithWhere(where).
		WithSort(sortBy).
		WithLimit(maxHistoryTurns).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query conversation turns: %w", err)
	}

	queryResp, err := datatypes.ParseGraphQLResponse[datatypes.TurnQueryResponse](resp)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to parse conversation turn response: %w", err)
	}

	turns := make([]Turn, 0, len(queryResp.Get.ConversationTurn))
	for _, t := range queryResp.Get.ConversationTurn {
		turns = append(turns, Turn{
			Role:      t.Role,
			Text:      t.Text,
			Timestamp: time.UnixMilli(int64(t.Timestamp)),
		})
	}
	return turns, nil
}

// Append writes one turn synchronously. The turn number is derived from
// the current history length so ordering survives restarts.
func (s *WeaviateTurnStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	ctx, span := memTracer.Start(ctx, "WeaviateTurnStore.Append")
	defer span.End()

	existing, err := s.History(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to determine turn number: %w", err)
	}

	sessionUUID, err := s.findOrCreateSessionUUID(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to find or create parent session, saving turn without graph link",
			"sessionId", sessionID, "error", err)
	}

	ts := turn.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	props := datatypes.TurnProperties{
		SessionID:  sessionID,
		Role:       turn.Role,
		Text:       turn.Text,
		Timestamp:  ts.UnixMilli(),
		TurnNumber: len(existing) + 1,
	}
	properties := props.ToMap()
	if err == nil {
		datatypes.WithBeacon(properties, sessionUUID)
	}

	_, err = s.client.Data().Creator().
		WithClassName("ConversationTurn").
		WithProperties(properties).
		Do(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save conversation turn: %w", err)
	}

	slog.Info("Saved conversation turn", "sessionId", sessionID, "turn", props.TurnNumber, "role", turn.Role)
	return nil
}

// Clear deletes every turn in the session. The Session object itself is
// kept; a cleared session behaves like a brand new one.
func (s *WeaviateTurnStore) Clear(ctx context.Context, sessionID string) error {
	ctx, span := memTracer.Start(ctx, "WeaviateTurnStore.Clear")
	defer span.End()

	where := filters.Where().
		WithPath([]string{"session_id"}).
		WithOperator(filters.Equal).
		WithValueString(sessionID)

	resp, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName("ConversationTurn").
		WithWhere(where).
		WithOutput("minimal").
		Do(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete conversation turns: %w", err)
	}

	if resp != nil && resp.Results != nil {
		slog.Info("Cleared session history", "sessionId", sessionID, "deleted", resp.Results.Successful)
	}
	return nil
}

// findOrCreateSessionUUID resolves the Weaviate UUID of the Session
// object for sessionID, creating the object on first use.
func (s *WeaviateTurnStore) findOrCreateSessionUUID(ctx context.Context, sessionID string) (string, error) {
	where := filters.Where().
		WithPath([]string{"session_id"}).
		WithOperator(filters.Equal).
		WithValueString(sessionID)

	fields := []graphql.Field{
		{Name: "_additional", Fields: []graphql.Field{{Name: "id"}}},
	}

	resp, err := s.client.GraphQL().Get().
		WithClassName("Session").
		WithWhere(where).
		WithFields(fields...).
		WithLimit(1).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("error querying for session: %w", err)
	}

	queryResp, err := datatypes.ParseGraphQLResponse[datatypes.SessionQueryResponse](resp)
	if err != nil {
		return "", fmt.Errorf("error parsing session query response: %w", err)
	}

	if len(queryResp.Get.Session) > 0 {
		return queryResp.Get.Session[0].Additional.ID, nil
	}

	slog.Info("No existing session found, creating one", "sessionId", sessionID)
	props := datatypes.SessionProperties{
		SessionID: sessionID,
		Timestamp: time.Now().UnixMilli(),
	}

	result, err := s.client.Data().Creator().
		WithClassName("Session").
		WithProperties(props.ToMap()).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create new session: %w", err)
	}
	if result == nil || result.Object == nil {
		return "", fmt.Errorf("weaviate created a session but returned a nil result")
	}
	return result.Object.ID.String(), nil
}
