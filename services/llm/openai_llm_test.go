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

func TestOpenAIClient_Chat_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer test-key")
		}

		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Model != "gpt-test" {
			t.Errorf("model = %q, want %q", req.Model, "gpt-test")
		}
		// OpenAI takes the system message inline.
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v, want system then user", req.Messages)
		}

		json.NewEncoder(w).Encode(openaiResponse{
			ID: "chatcmpl-1",
			Choices: []openaiChoice{
				{Message: openaiMessage{Role: "assistant", Content: "Hello from GPT!"}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAIClientWithConfig("test-key", "gpt-test", server.URL)
	text, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: datatypes.RoleSystem, Content: "You are a menu assistant."},
		{Role: datatypes.RoleUser, Content: "Hello"},
	}, GenerationParams{})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if text != "Hello from GPT!" {
		t.Errorf("text = %q, want %q", text, "Hello from GPT!")
	}
}

func TestOpenAIClient_Chat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad key"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClientWithConfig("test-key", "gpt-test", server.URL)
	_, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: datatypes.RoleUser, Content: "Hello"},
	}, GenerationParams{})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "openai:") || !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q missing provider prefix or status", err.Error())
	}
}

func TestOpenAIClient_Chat_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiResponse{})
	}))
	defer server.Close()

	client := NewOpenAIClientWithConfig("test-key", "gpt-test", server.URL)
	_, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: datatypes.RoleUser, Content: "Hello"},
	}, GenerationParams{})
	if err == nil || !strings.Contains(err.Error(), "empty choices") {
		t.Errorf("expected empty choices error, got %v", err)
	}
}

func TestOpenAIClient_Chat_PassesGenerationParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openaiRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Temperature == nil || *req.Temperature != 0.2 {
			t.Errorf("temperature = %v, want 0.2", req.Temperature)
		}
		if req.MaxCompletionTokens == nil || *req.MaxCompletionTokens != 512 {
			t.Errorf("max_completion_tokens = %v, want 512", req.MaxCompletionTokens)
		}
		json.NewEncoder(w).Encode(openaiResponse{
			Choices: []openaiChoice{{Message: openaiMessage{Content: "ok"}}},
		})
	}))
	defer server.Close()

	temp := float32(0.2)
	maxTokens := 512
	client := NewOpenAIClientWithConfig("test-key", "gpt-test", server.URL)
	_, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: datatypes.RoleUser, Content: "Hello"},
	}, GenerationParams{Temperature: &temp, MaxTokens: &maxTokens})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
}
