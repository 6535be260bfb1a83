// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/researchpal/researchpal/services/assistant/agent"
	"github.com/researchpal/researchpal/services/assistant/handlers"
	"github.com/researchpal/researchpal/services/assistant/library"
	"github.com/researchpal/researchpal/services/assistant/memory"
	"github.com/researchpal/researchpal/services/assistant/tools"
)

func SetupRoutes(router *gin.Engine, assistant *agent.Assistant, registry *tools.Registry,
	turns memory.TurnStore, libraryStore *library.Store) {

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/chat", handlers.HandleChat(assistant))
		api.POST("/search", handlers.HandleSearch(registry))

		api.GET("/library", handlers.HandleGetLibrary(libraryStore))
		api.POST("/library", handlers.HandleSaveToLibrary(libraryStore))
		api.DELETE("/library/:arxiv_id", handlers.HandleDeleteFromLibrary(libraryStore))

		// Session administration routes
		sessions := api.Group("/sessions")
		{
			sessions.GET("/:session_id/history", handlers.HandleGetSessionHistory(turns))
			sessions.DELETE("/:session_id", handlers.HandleClearSession(turns))
		}
	}
}
