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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/researchpal/researchpal/services/assistant/memory"
)

// HandleGetSessionHistory returns the turn log of one session, oldest
// first. Unknown sessions yield an empty list.
func HandleGetSessionHistory(store memory.TurnStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleGetSessionHistory")
		defer span.End()

		sessionID := c.Param("session_id")
		span.SetAttributes(attribute.String("session_id", sessionID))

		turns, err := store.History(ctx, sessionID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to read session history", "sessionId", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id": sessionID,
			"turns":      turns,
			"total":      len(turns),
		})
	}
}

// HandleClearSession deletes a session's turn log. The session id stays
// valid; the next chat on it starts from an empty history.
func HandleClearSession(store memory.TurnStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleClearSession")
		defer span.End()

		sessionID := c.Param("session_id")
		slog.Info("Clearing session history", "sessionId", sessionID)

		if err := store.Clear(ctx, sessionID); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to clear session", "sessionId", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Session history cleared",
			"session_id": sessionID,
		})
	}
}
