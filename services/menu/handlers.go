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
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianMenu/services/menu/agent"
	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
	"github.com/AleutianAI/AleutianMenu/services/menu/tools"
)

// sessionHeader carries the cart session id. Body sessionId wins when both
// are present; with neither, the shared default session is used.
const sessionHeader = "X-Session-ID"

// Handlers serves the menu HTTP API.
type Handlers struct {
	dispatcher *tools.Dispatcher
	agent      *agent.Agent
	log        *slog.Logger
}

func NewHandlers(dispatcher *tools.Dispatcher, ag *agent.Agent, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{dispatcher: dispatcher, agent: ag, log: log}
}

// HandleHealth handles GET /v1/menu/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReady handles GET /v1/menu/ready. Ready means the catalog loaded
// and validated; there is no warm-up beyond that.
func (h *Handlers) HandleReady(c *gin.Context) {
	count := len(h.dispatcher.Store().Items())
	if count == 0 {
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{Status: "empty_catalog"})
		return
	}
	c.JSON(http.StatusOK, ReadyResponse{Status: "ready", ItemCount: count})
}

// HandleListTools handles GET /v1/menu/tools.
//
// Response:
//
//	200 OK: array of {name, description, inputSchema} descriptors.
func (h *Handlers) HandleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": tools.Specs()})
}

// HandleToolCall handles POST /v1/menu/call.
//
// Description:
//
//	Invokes one tool by name with raw JSON arguments. Tool-level failures
//	come back as structured error payloads, never as opaque 500s.
//
// Response:
//
//	200 OK: the tool's result object
//	400 Bad Request: malformed body, unknown tool, or invalid arguments
//	404 Not Found: the referenced item or cart line does not exist
func (h *Handlers) HandleToolCall(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.log.With("request_id", requestID, "handler", "HandleToolCall")

	var req ToolCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}

	tool := tools.Tool(req.Tool)
	if !tool.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown tool: " + req.Tool, Code: "UNKNOWN_TOOL"})
		return
	}

	session := sessionFrom(c, req.SessionID)
	result, err := h.dispatcher.Dispatch(c.Request.Context(), session, tool, req.Arguments)
	if err != nil {
		logger.Warn("tool call failed", "tool", tool, "error", err)
		status := http.StatusBadRequest
		code := "INVALID_ARGUMENTS"
		switch {
		case errors.Is(err, catalog.ErrItemNotFound), errors.Is(err, catalog.ErrCartItemNotFound):
			status, code = http.StatusNotFound, "ITEM_NOT_FOUND"
		case errors.Is(err, catalog.ErrItemUnavailable):
			status, code = http.StatusConflict, "ITEM_UNAVAILABLE"
		case errors.Is(err, catalog.ErrEmptyCart):
			status, code = http.StatusConflict, "EMPTY_CART"
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleChat handles POST /v1/menu/chat.
//
// Description:
//
//	Resolves one utterance through the agent pipeline. The pipeline
//	guarantees a well-formed response for every input, so this endpoint
//	only ever fails on a malformed request body.
func (h *Handlers) HandleChat(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.log.With("request_id", requestID, "handler", "HandleChat")

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}

	session := sessionFrom(c, req.SessionID)
	resp := h.agent.Chat(c.Request.Context(), session, req.Message)
	logger.Debug("chat resolved", "session", session, "ui_type", resp.Type)
	c.JSON(http.StatusOK, resp)
}

func sessionFrom(c *gin.Context, bodySession string) string {
	if bodySession != "" {
		return bodySession
	}
	if header := c.GetHeader(sessionHeader); header != "" {
		return header
	}
	return catalog.DefaultSession
}

func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}
