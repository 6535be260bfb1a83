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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"
)

func TestChatRequest_Validate(t *testing.T) {
	valid := ChatRequest{Message: "hello", SessionID: "s1"}
	assert.NoError(t, valid.Validate())

	missing := ChatRequest{SessionID: "s1"}
	assert.Error(t, missing.Validate())

	oversized := ChatRequest{Message: strings.Repeat("a", MaxMessageContentBytes+1)}
	assert.Error(t, oversized.Validate())

	atLimit := ChatRequest{Message: strings.Repeat("a", MaxMessageContentBytes)}
	assert.NoError(t, atLimit.Validate())
}

func TestLibraryRequest_Validate(t *testing.T) {
	valid := LibraryRequest{ArxivID: "1706.03762", Title: "Attention"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&LibraryRequest{Title: "Attention"}).Validate())
	assert.Error(t, (&LibraryRequest{ArxivID: "1706.03762"}).Validate())
}

func TestParseGraphQLResponse_PaperQuery(t *testing.T) {
	resp := &models.GraphQLResponse{
		Data: map[string]models.JSONObject{
			"Get": map[string]interface{}{
				"Paper": []interface{}{
					map[string]interface{}{
						"arxiv_id": "1706.03762",
						"title":    "Attention Is All You Need",
						"authors":  "Vaswani et al.",
						"abstract": "We propose the transformer.",
						"_additional": map[string]interface{}{
							"certainty": 0.91,
						},
					},
				},
			},
		},
	}

	parsed, err := ParseGraphQLResponse[PaperQueryResponse](resp)
	require.NoError(t, err)
	require.Len(t, parsed.Get.Paper, 1)
	assert.Equal(t, "1706.03762", parsed.Get.Paper[0].ArxivID)
	assert.InDelta(t, 0.91, parsed.Get.Paper[0].Additional.Certainty, 0.001)
}

func TestParseGraphQLResponse_TurnOrdering(t *testing.T) {
	resp := &models.GraphQLResponse{
		Data: map[string]models.JSONObject{
			"Get": map[string]interface{}{
				"ConversationTurn": []interface{}{
					map[string]interface{}{"session_id": "s1", "role": "user", "text": "q", "turn_number": 1},
					map[string]interface{}{"session_id": "s1", "role": "assistant", "text": "a", "turn_number": 2},
				},
			},
		},
	}

	parsed, err := ParseGraphQLResponse[TurnQueryResponse](resp)
	require.NoError(t, err)
	require.Len(t, parsed.Get.ConversationTurn, 2)
	assert.Equal(t, 1, parsed.Get.ConversationTurn[0].TurnNumber)
	assert.Equal(t, "assistant", parsed.Get.ConversationTurn[1].Role)
}

func TestParseGraphQLResponse_NilResponse(t *testing.T) {
	_, err := ParseGraphQLResponse[PaperQueryResponse](nil)
	assert.Error(t, err)
}

func TestWithBeacon(t *testing.T) {
	props := TurnProperties{SessionID: "s1", Role: "user", Text: "q", TurnNumber: 1}.ToMap()
	WithBeacon(props, "123e4567-e89b-12d3-a456-426614174000")

	refs, ok := props["inSession"].([]BeaconRef)
	require.True(t, ok)
	require.Len(t, refs, 1)
	assert.Equal(t, "weaviate://localhost/Session/123e4567-e89b-12d3-a456-426614174000", refs[0].Beacon)
}
