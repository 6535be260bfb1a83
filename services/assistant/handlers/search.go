// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/researchpal/researchpal/services/assistant/agent"
	"github.com/researchpal/researchpal/services/assistant/datatypes"
	"github.com/researchpal/researchpal/services/assistant/tools"
)

// HandleSearch runs the knowledge base tool directly, bypassing the
// model, and re-parses its numbered-list output into structured records.
// The response always carries at least one record; an empty search
// yields a placeholder entry.
func HandleSearch(registry *tools.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleSearch")
		defer span.End()

		var req datatypes.SearchRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the search request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		slog.Info("Processing search request", "query", req.Query)
		args, _ := json.Marshal(map[string]string{"query": req.Query})
		raw := registry.Invoke(ctx, tools.KnowledgeBaseName, string(args))
		papers := agent.ParsePaperList(raw, req.Query)

		c.JSON(http.StatusOK, datatypes.SearchResponse{
			Papers: papers,
			Total:  len(papers),
		})
	}
}
