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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/researchpal/researchpal/services/assistant/datatypes"
	"github.com/researchpal/researchpal/services/assistant/library"
)

// HandleGetLibrary lists every saved paper.
func HandleGetLibrary(store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "HandleGetLibrary")
		defer span.End()

		papers := store.List()
		c.JSON(http.StatusOK, datatypes.LibraryResponse{
			Papers: papers,
			Total:  len(papers),
		})
	}
}

// HandleSaveToLibrary saves one paper, replacing any existing entry
// under the same identifier.
func HandleSaveToLibrary(store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "HandleSaveToLibrary")
		defer span.End()

		var req datatypes.LibraryRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the library request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		slog.Info("Saving paper to library", "arxivId", req.ArxivID, "title", req.Title)
		store.Save(req)
		c.JSON(http.StatusOK, gin.H{
			"message":  "Paper saved to library",
			"arxiv_id": req.ArxivID,
		})
	}
}

// HandleDeleteFromLibrary removes one paper by identifier. Deleting an
// absent identifier is a 404.
func HandleDeleteFromLibrary(store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "HandleDeleteFromLibrary")
		defer span.End()

		arxivID := c.Param("arxiv_id")
		slog.Info("Removing paper from library", "arxivId", arxivID)

		if err := store.Delete(arxivID); err != nil {
			if errors.Is(err, library.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found in library"})
				return
			}
			span.RecordError(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Paper removed from library",
			"arxiv_id": arxivID,
		})
	}
}
