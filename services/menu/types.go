// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package menu is the HTTP and stdio transport for the menu service: a
// catalog/cart tool API plus a conversational ordering endpoint backed by
// the agent pipeline.
package menu

import "encoding/json"

// ToolCallRequest invokes one tool by name.
type ToolCallRequest struct {
	Tool      string          `json:"tool" binding:"required"`
	Arguments json.RawMessage `json:"arguments"`
	SessionID string          `json:"sessionId"`
}

// ChatRequest is one conversational utterance.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse reports readiness and catalog size.
type ReadyResponse struct {
	Status    string `json:"status"`
	ItemCount int    `json:"itemCount"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
