// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianMenu/services/orchestrator/datatypes"
)

func TestAnthropicClient_Chat_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q, want %q", r.Header.Get("x-api-key"), "test-key")
		}
		if r.Header.Get("anthropic-version") != anthropicAPIVersion {
			t.Errorf("anthropic-version = %q, want %q", r.Header.Get("anthropic-version"), anthropicAPIVersion)
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Model != "claude-test" {
			t.Errorf("model = %q, want %q", req.Model, "claude-test")
		}
		// The system message must be lifted out of the messages array.
		for _, m := range req.Messages {
			if m.Role == "system" {
				t.Error("system message leaked into messages array")
			}
		}
		if len(req.System) != 1 || req.System[0].Text != "You are a menu assistant." {
			t.Errorf("system blocks = %+v, want one block with the system prompt", req.System)
		}

		resp := anthropicResponse{
			ID:   "msg-123",
			Type: "message",
			Role: "assistant",
			Content: []anthropicContent{
				{Type: "text", Text: "Hello from Claude!"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewAnthropicClientWithConfig("test-key", "claude-test", server.URL)
	messages := []datatypes.Message{
		{Role: datatypes.RoleSystem, Content: "You are a menu assistant."},
		{Role: datatypes.RoleUser, Content: "Hello"},
	}

	text, err := client.Chat(context.Background(), messages, GenerationParams{})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if text != "Hello from Claude!" {
		t.Errorf("text = %q, want %q", text, "Hello from Claude!")
	}
}

func TestAnthropicClient_Chat_LargeSystemPromptGetsCacheControl(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.System) != 1 {
			t.Fatalf("expected one system block, got %d", len(req.System))
		}
		if req.System[0].CacheControl == nil || req.System[0].CacheControl.Type != "ephemeral" {
			t.Error("expected ephemeral cache_control on large system prompt")
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "ok"}},
		})
	}))
	defer server.Close()

	client := NewAnthropicClientWithConfig("test-key", "claude-test", server.URL)
	messages := []datatypes.Message{
		{Role: datatypes.RoleSystem, Content: strings.Repeat("menu context ", 200)},
		{Role: datatypes.RoleUser, Content: "Hello"},
	}
	if _, err := client.Chat(context.Background(), messages, GenerationParams{}); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
}

func TestAnthropicClient_Chat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	client := NewAnthropicClientWithConfig("test-key", "claude-test", server.URL)
	_, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: datatypes.RoleUser, Content: "Hello"},
	}, GenerationParams{})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "anthropic:") {
		t.Errorf("error %q missing provider prefix", err.Error())
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q missing status code", err.Error())
	}
}

func TestAnthropicClient_Chat_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(anthropicResponse{Content: []anthropicContent{}})
	}))
	defer server.Close()

	client := NewAnthropicClientWithConfig("test-key", "claude-test", server.URL)
	_, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: datatypes.RoleUser, Content: "Hello"},
	}, GenerationParams{})
	if err == nil || !strings.Contains(err.Error(), "empty content") {
		t.Errorf("expected empty content error, got %v", err)
	}
}

func TestAnthropicClient_Generate_WrapsPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req anthropicRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v, want single user message", req.Messages)
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "answer"}},
		})
	}))
	defer server.Close()

	client := NewAnthropicClientWithConfig("test-key", "claude-test", server.URL)
	text, err := client.Generate(context.Background(), "what is on the menu", GenerationParams{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "answer" {
		t.Errorf("text = %q, want %q", text, "answer")
	}
}
