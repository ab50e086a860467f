// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianMenu/services/menu/agent/providers"
	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
	"github.com/AleutianAI/AleutianMenu/services/menu/tools"
	"github.com/AleutianAI/AleutianMenu/services/orchestrator/datatypes"
)

// fakeChatClient scripts the model side of the pipeline.
type fakeChatClient struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	lastSent []datatypes.Message
}

func (f *fakeChatClient) Chat(_ context.Context, messages []datatypes.Message, _ providers.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastSent = messages
	return f.reply, f.err
}

func newTestAgent(t *testing.T, client providers.ChatClient, fallback bool) *Agent {
	t.Helper()
	store, err := catalog.NewStore(catalog.StoreConfig{})
	require.NoError(t, err)
	return New(tools.NewDispatcher(store, nil), Options{
		LLMEnabled:      client != nil,
		FallbackEnabled: fallback,
		Client:          client,
	})
}

func TestAgent_ClassifierPath_ShowMenu(t *testing.T) {
	a := newTestAgent(t, nil, false)

	resp := a.Chat(context.Background(), "s1", "show me the menu")
	assert.Equal(t, UIMenuDisplay, resp.Type)
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.Items)
}

func TestAgent_AddByNameAmbiguous(t *testing.T) {
	a := newTestAgent(t, nil, false)

	resp := a.Chat(context.Background(), "s1", "add 1 chicken")
	assert.Equal(t, UIClarificationNeeded, resp.Type)
	assert.NotEmpty(t, resp.Items)
	assert.LessOrEqual(t, len(resp.Items), maxClarificationCandidates)
	require.NotNil(t, resp.PendingAction)
	assert.Equal(t, tools.ToolCartAddItem, resp.PendingAction.Tool)
	assert.Equal(t, 1, resp.PendingAction.Quantity)
	assert.Equal(t, "chicken", resp.PendingAction.Query)
}

func TestAgent_AddByNameUnique(t *testing.T) {
	a := newTestAgent(t, nil, false)

	resp := a.Chat(context.Background(), "s1", "add 2 beef burger")
	assert.Equal(t, UICartUpdate, resp.Type)
	assert.Equal(t, "Added 2x Beef Burger to cart", resp.Message)
	assert.Equal(t, "31.98", resp.Total)
	assert.Equal(t, 2, resp.ItemCount)
}

func TestAgent_AddByNamePluralQuantity(t *testing.T) {
	a := newTestAgent(t, nil, false)

	resp := a.Chat(context.Background(), "s1", "2 burgers please")
	assert.Equal(t, UICartUpdate, resp.Type)
	assert.Equal(t, "Added 2x Beef Burger to cart", resp.Message)
	assert.Equal(t, "31.98", resp.Total)
	assert.Equal(t, 2, resp.ItemCount)
}

func TestAgent_AddByNameNoMatch(t *testing.T) {
	a := newTestAgent(t, nil, false)

	resp := a.Chat(context.Background(), "s1", "add a unicorn steak")
	assert.Equal(t, UIError, resp.Type)
	assert.Equal(t, exampleSuggestions, resp.Suggestions)
}

func TestAgent_RemoveThenShowCart(t *testing.T) {
	a := newTestAgent(t, nil, false)
	ctx := context.Background()

	a.Chat(ctx, "s1", "add 1 iced tea")
	resp := a.Chat(ctx, "s1", "remove the iced tea")
	assert.Equal(t, UICartUpdate, resp.Type)
	assert.Empty(t, resp.Cart)

	resp = a.Chat(ctx, "s1", "show my cart")
	assert.Equal(t, UIShowCart, resp.Type)
	assert.Equal(t, "0.00", resp.Total)
	assert.Equal(t, 0, resp.ItemCount)
}

func TestAgent_RemoveWithoutHintAsksWhich(t *testing.T) {
	a := newTestAgent(t, nil, false)
	ctx := context.Background()

	a.Chat(ctx, "s1", "add 1 beef burger")
	resp := a.Chat(ctx, "s1", "remove")
	assert.Equal(t, UIShowCart, resp.Type)
	assert.Contains(t, resp.Message, "Which item")
	assert.NotEmpty(t, resp.Cart)
}

func TestAgent_SessionIsolation(t *testing.T) {
	a := newTestAgent(t, nil, false)
	ctx := context.Background()

	a.Chat(ctx, "alice", "add 1 beef burger")
	resp := a.Chat(ctx, "bob", "show my cart")
	assert.Equal(t, 0, resp.ItemCount)
}

func TestAgent_LLMToolCall(t *testing.T) {
	client := &fakeChatClient{
		reply: `{"action": "tool_call", "tool": "cart_add_item", "parameters": {"itemId": "main004", "quantity": 2}, "message": "Two burgers coming up!"}`,
	}
	a := newTestAgent(t, client, true)

	resp := a.Chat(context.Background(), "s1", "two burgers please")
	assert.Equal(t, UICartUpdate, resp.Type)
	assert.Equal(t, "Two burgers coming up!", resp.Message)
	assert.Equal(t, "31.98", resp.Total)
	assert.Equal(t, 2, resp.ItemCount)
}

func TestAgent_LLMAddByItemName(t *testing.T) {
	// The model passed a name instead of an id; the pipeline resolves it
	// through search before mutating the cart.
	client := &fakeChatClient{
		reply: `{"action": "tool_call", "tool": "cart_add_item", "parameters": {"itemName": "iced tea", "quantity": 1}}`,
	}
	a := newTestAgent(t, client, true)

	resp := a.Chat(context.Background(), "s1", "an iced tea please")
	assert.Equal(t, UICartUpdate, resp.Type)
	assert.Equal(t, "Added 1x Iced Tea to cart", resp.Message)
}

func TestAgent_LLMUnknownToolIsError(t *testing.T) {
	client := &fakeChatClient{
		reply: `{"action": "tool_call", "tool": "launch_rockets", "parameters": {}}`,
	}
	a := newTestAgent(t, client, true)

	resp := a.Chat(context.Background(), "s1", "do something")
	assert.Equal(t, UIError, resp.Type)
	assert.Equal(t, exampleSuggestions, resp.Suggestions)
}

func TestAgent_HallucinatedSuggestionsCleared(t *testing.T) {
	client := &fakeChatClient{
		reply: `{"action": "conversation", "message": "You might enjoy our sorbet!", "suggestions": ["Lemon Sorbet (150 cal)"], "ui_type": "conversation"}`,
	}
	a := newTestAgent(t, client, true)

	resp := a.Chat(context.Background(), "s1", "something cold?")
	assert.Equal(t, UIConversation, resp.Type)
	assert.Empty(t, resp.Suggestions)
	assert.True(t, resp.HasInvalidSuggestions)
}

func TestAgent_ValidSuggestionsCanonicalized(t *testing.T) {
	client := &fakeChatClient{
		reply: `{"action": "conversation", "message": "How about these?", "suggestions": ["beef burger - $15.99", "iced tea"]}`,
	}
	a := newTestAgent(t, client, true)

	resp := a.Chat(context.Background(), "s1", "any ideas?")
	assert.Equal(t, []string{"Beef Burger", "Iced Tea"}, resp.Suggestions)
	assert.False(t, resp.HasInvalidSuggestions)
}

func TestAgent_FallbackOnLLMFailure(t *testing.T) {
	client := &fakeChatClient{err: errors.New("context deadline exceeded")}
	a := newTestAgent(t, client, true)

	resp := a.Chat(context.Background(), "s1", "show me the menu")
	assert.Equal(t, UIMenuDisplay, resp.Type)
	assert.NotEmpty(t, resp.Message)
}

func TestAgent_NoFallbackApologizes(t *testing.T) {
	client := &fakeChatClient{err: errors.New("connection refused")}
	a := newTestAgent(t, client, false)

	resp := a.Chat(context.Background(), "s1", "show me the menu")
	assert.Equal(t, UIError, resp.Type)
	assert.Equal(t, apologyMessage, resp.Message)
	assert.Equal(t, exampleSuggestions, resp.Suggestions)
}

func TestAgent_MalformedLLMOutputDegradesToConversation(t *testing.T) {
	client := &fakeChatClient{reply: "I am not JSON at all, just chatting."}
	a := newTestAgent(t, client, true)

	resp := a.Chat(context.Background(), "s1", "hello")
	assert.Equal(t, UIConversation, resp.Type)
	assert.Equal(t, "I am not JSON at all, just chatting.", resp.Message)
}

func TestAgent_SystemPromptCarriesMenuAndCart(t *testing.T) {
	client := &fakeChatClient{
		reply: `{"action": "conversation", "message": "ok"}`,
	}
	a := newTestAgent(t, client, true)
	ctx := context.Background()

	a.Chat(ctx, "s1", "hi")
	require.NotEmpty(t, client.lastSent)
	system := client.lastSent[0]
	assert.Equal(t, datatypes.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "AVAILABLE TOOLS")
	assert.Contains(t, system.Content, "Beef Burger")
	assert.Contains(t, system.Content, "RESPONSE FORMAT")
}

func TestAgent_HistoryWindowBounded(t *testing.T) {
	client := &fakeChatClient{
		reply: `{"action": "conversation", "message": "noted"}`,
	}
	a := newTestAgent(t, client, true)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		a.Chat(ctx, "s1", "tell me more")
	}

	// One system message, at most six replayed turns, plus the current
	// utterance.
	assert.LessOrEqual(t, len(client.lastSent), 1+historyWindow+1)
	last := client.lastSent[len(client.lastSent)-1]
	assert.Equal(t, datatypes.RoleUser, last.Role)
	assert.Equal(t, "tell me more", last.Content)
}

func TestAgent_PreferencesReachPrompt(t *testing.T) {
	client := &fakeChatClient{
		reply: `{"action": "conversation", "message": "got it"}`,
	}
	a := newTestAgent(t, client, true)
	ctx := context.Background()

	a.Chat(ctx, "s1", "I'm vegetarian and like it spicy")
	a.Chat(ctx, "s1", "what do you suggest?")

	system := client.lastSent[0]
	assert.Contains(t, system.Content, "vegetarian")
	assert.Contains(t, system.Content, "spice preference")
}

// gateChatClient blocks its first call until released so a test can land
// a second turn while the first is still in flight.
type gateChatClient struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	reply   string
}

func (g *gateChatClient) Chat(_ context.Context, _ []datatypes.Message, _ providers.ChatOptions) (string, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.started)
		<-g.release
	}
	return g.reply, nil
}

func TestAgent_StaleTurnDroppedFromHistory(t *testing.T) {
	client := &gateChatClient{
		started: make(chan struct{}),
		release: make(chan struct{}),
		reply:   `{"action": "conversation", "message": "model reply"}`,
	}
	a := newTestAgent(t, client, false)
	ctx := context.Background()

	done := make(chan AIResponse, 1)
	go func() { done <- a.Chat(ctx, "s1", "first message") }()
	<-client.started

	// A second turn on the same session completes while the first is
	// still waiting on the model.
	resp := a.Chat(ctx, "s1", "second message")
	assert.Equal(t, "model reply", resp.Message)

	close(client.release)
	stale := <-done

	// The stale turn still answers its caller.
	assert.Equal(t, "model reply", stale.Message)

	// But only the newer turn made it into history.
	state := a.sessionFor("s1")
	state.mu.Lock()
	defer state.mu.Unlock()
	require.Len(t, state.history, 2)
	assert.Equal(t, datatypes.RoleUser, state.history[0].Role)
	assert.Equal(t, "second message", state.history[0].Content)
	assert.Equal(t, datatypes.RoleAssistant, state.history[1].Role)
}
