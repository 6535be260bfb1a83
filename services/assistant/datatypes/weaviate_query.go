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
	"encoding/json"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"
)

// ParseGraphQLResponse parses a Weaviate GraphQL response into the target
// type. It encapsulates the marshal/unmarshal round trip needed to turn
// Weaviate's dynamic response (map[string]models.JSONObject) into a
// strongly-typed struct; T must carry json tags matching the response
// shape. Type mismatches yield zero values, not errors.
func ParseGraphQLResponse[T any](resp *models.GraphQLResponse) (*T, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil GraphQL response")
	}

	respBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL response data: %w", err)
	}

	var result T
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into target type: %w", err)
	}
	return &result, nil
}

// SessionQueryResponse is the shape of a Session class query.
type SessionQueryResponse struct {
	Get struct {
		Session []SessionResult `json:"Session"`
	} `json:"Get"`
}

// SessionResult is a single session from a query.
type SessionResult struct {
	SessionID  string `json:"session_id"`
	Timestamp  int64  `json:"timestamp"`
	Additional struct {
		ID string `json:"id"`
	} `json:"_additional"`
}

// TurnQueryResponse is the shape of a ConversationTurn class query.
type TurnQueryResponse struct {
	Get struct {
		ConversationTurn []TurnResult `json:"ConversationTurn"`
	} `json:"Get"`
}

// TurnResult is a single conversation turn from a query.
type TurnResult struct {
	SessionID  string  `json:"session_id"`
	Role       string  `json:"role"`
	Text       string  `json:"text"`
	Timestamp  float64 `json:"timestamp"`
	TurnNumber int     `json:"turn_number"`
}

// PaperQueryResponse is the shape of a Paper class nearText query.
type PaperQueryResponse struct {
	Get struct {
		Paper []PaperResult `json:"Paper"`
	} `json:"Get"`
}

// PaperResult is a single paper hit from the knowledge base.
type PaperResult struct {
	ArxivID    string   `json:"arxiv_id"`
	Title      string   `json:"title"`
	Authors    string   `json:"authors"`
	Abstract   string   `json:"abstract"`
	Categories []string `json:"categories"`
	Published  string   `json:"published"`
	Additional struct {
		Certainty float64 `json:"certainty"`
	} `json:"_additional"`
}

// TurnProperties is the property set written for one ConversationTurn
// object.
type TurnProperties struct {
	SessionID  string `json:"session_id"`
	Role       string `json:"role"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
	TurnNumber int    `json:"turn_number"`
}

// ToMap converts the properties to the map form the Weaviate data API
// expects.
func (p TurnProperties) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"session_id":  p.SessionID,
		"role":        p.Role,
		"text":        p.Text,
		"timestamp":   p.Timestamp,
		"turn_number": p.TurnNumber,
	}
}

// SessionProperties is the property set written for one Session object.
type SessionProperties struct {
	SessionID string `json:"session_id"`
	Timestamp int64  `json:"timestamp"`
}

// ToMap converts the properties to the map form the Weaviate data API
// expects.
func (p SessionProperties) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"session_id": p.SessionID,
		"timestamp":  p.Timestamp,
	}
}

// BeaconRef is a Weaviate cross-reference beacon.
type BeaconRef struct {
	Beacon string `json:"beacon"`
}

// WithBeacon links props to the parent Session object. The "localhost" in
// the beacon URI is part of Weaviate's cross-reference format, not a real
// host.
func WithBeacon(props map[string]interface{}, sessionUUID string) {
	beacon := BeaconRef{
		Beacon: fmt.Sprintf("weaviate://localhost/Session/%s", sessionUUID),
	}
	props["inSession"] = []BeaconRef{beacon}
}
