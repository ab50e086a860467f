// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package menu

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all menu routes with the router.
//
// Description:
//
//	Registers all /v1/menu/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Endpoints:
//
//	GET  /v1/menu/health - Health check
//	GET  /v1/menu/ready - Readiness check
//	GET  /v1/menu/tools - List tool descriptors
//	POST /v1/menu/call - Invoke one tool
//	POST /v1/menu/chat - Conversational ordering
//
// Example:
//
//	handlers := menu.NewHandlers(dispatcher, agent, logger)
//	v1 := router.Group("/v1")
//	menu.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	menu := rg.Group("/menu")
	{
		menu.GET("/health", handlers.HandleHealth)
		menu.GET("/ready", handlers.HandleReady)

		menu.GET("/tools", handlers.HandleListTools)
		menu.POST("/call", handlers.HandleToolCall)

		menu.POST("/chat", handlers.HandleChat)
	}
}
