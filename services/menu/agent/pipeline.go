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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianMenu/services/menu/agent/providers"
	"github.com/AleutianAI/AleutianMenu/services/menu/tools"
	"github.com/AleutianAI/AleutianMenu/services/orchestrator/datatypes"
)

const (
	// historyCap bounds a session's stored history. Older turns fall off;
	// this is conversational context, not an audit log.
	historyCap = 20

	// defaultLLMTimeout bounds one model call. Expiry is classified as
	// the model being unavailable, which routes to the fallback path.
	defaultLLMTimeout = 15 * time.Second

	apologyMessage = "Sorry, I'm having trouble right now. Try one of these:"
)

// Options configures an Agent.
type Options struct {
	// LLMEnabled turns the model path on. When false every utterance is
	// resolved by the rule-based classifier.
	LLMEnabled bool

	// FallbackEnabled routes to the classifier when the model call
	// fails. When false a model failure produces a generic apology.
	FallbackEnabled bool

	// LLMTimeout bounds one model call. Zero means the default.
	LLMTimeout time.Duration

	// Client is the chat provider. Required when LLMEnabled.
	Client providers.ChatClient

	Logger *slog.Logger
}

// Agent resolves utterances end to end: context building, the model call
// (or the classifier), parsing, suggestion validation, tool execution, and
// presentation filtering.
//
// Thread Safety:
//
//	Safe for concurrent use. Turns are serialized per session; different
//	sessions proceed in parallel.
type Agent struct {
	opts       Options
	builder    *ContextBuilder
	classifier *Classifier
	executor   *Executor
	validator  *SuggestionValidator
	log        *slog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// sessionState is everything the agent remembers about one session.
type sessionState struct {
	mu      sync.Mutex
	history []ConversationTurn
	prefs   Preferences

	// turn increases once per submitted utterance. A turn whose id no
	// longer matches the latest submission is stale and must not write
	// history.
	turn uint64
}

func New(dispatch *tools.Dispatcher, opts Options) *Agent {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = defaultLLMTimeout
	}
	store := dispatch.Store()
	return &Agent{
		opts:       opts,
		builder:    NewContextBuilder(store),
		classifier: NewClassifier(),
		executor:   NewExecutor(dispatch, opts.Logger),
		validator:  NewSuggestionValidator(store.Items(), opts.Logger),
		log:        opts.Logger,
		sessions:   make(map[string]*sessionState),
	}
}

// Chat resolves one utterance for a session and always returns a
// well-formed response. No failure mode escapes as an error: model
// outages, malformed model output, and tool failures all degrade to a
// response the caller can render.
func (a *Agent) Chat(ctx context.Context, session, utterance string) AIResponse {
	ctx, span := otel.Tracer(agentTracerName).Start(ctx, "agent.Chat")
	defer span.End()
	span.SetAttributes(attribute.String("chat.session", session))

	state := a.sessionFor(session)
	state.mu.Lock()
	state.turn++
	turn := state.turn
	state.prefs.Observe(utterance)
	history := append([]ConversationTurn(nil), state.history...)
	prefs := state.prefs
	state.mu.Unlock()

	start := time.Now()
	resp, path := a.resolve(ctx, session, history, &prefs, utterance)
	observeTurn(path, string(resp.Type), time.Since(start))

	span.SetAttributes(
		attribute.String("chat.path", path),
		attribute.String("chat.ui_type", string(resp.Type)),
	)

	state.mu.Lock()
	defer state.mu.Unlock()

	// Monotonic turn guard: a response whose turn id is no longer the
	// latest lost the race to a newer submission. It is still returned
	// to its caller but must not rewrite shared history out of order.
	if state.turn != turn {
		a.log.Warn("stale turn response discarded from history",
			"session", session, "turn", turn, "latest", state.turn)
		return resp
	}

	state.history = append(state.history,
		ConversationTurn{Role: datatypes.RoleUser, Content: utterance},
		ConversationTurn{Role: datatypes.RoleAssistant, Content: resp.Message},
	)
	if len(state.history) > historyCap {
		state.history = state.history[len(state.history)-historyCap:]
	}
	return resp
}

// resolve picks the resolution path and runs it. Returns the response and
// the path label ("llm", "fallback", or "classifier") for metrics.
func (a *Agent) resolve(ctx context.Context, session string, history []ConversationTurn, prefs *Preferences, utterance string) (AIResponse, string) {
	if !a.opts.LLMEnabled || a.opts.Client == nil {
		return a.executor.Execute(ctx, session, a.classifier.Classify(utterance)), "classifier"
	}

	resp, err := a.resolveLLM(ctx, session, history, prefs, utterance)
	if err == nil {
		return resp, "llm"
	}

	a.log.Warn("model path failed", "session", session, "error", err)
	if a.opts.FallbackEnabled {
		return a.executor.Execute(ctx, session, a.classifier.Classify(utterance)), "fallback"
	}
	return errorResponse(apologyMessage), "llm"
}

// resolveLLM runs the model path for one utterance. Any transport failure
// comes back wrapped in ErrLLMUnavailable; parse trouble never fails, the
// tiered parser always yields something usable.
func (a *Agent) resolveLLM(ctx context.Context, session string, history []ConversationTurn, prefs *Preferences, utterance string) (AIResponse, error) {
	system := a.builder.BuildSystemPrompt(session, prefs)
	messages := a.builder.BuildMessages(history, utterance)
	messages = append([]datatypes.Message{{Role: datatypes.RoleSystem, Content: system}}, messages...)

	callCtx, cancel := context.WithTimeout(ctx, a.opts.LLMTimeout)
	defer cancel()

	raw, err := a.opts.Client.Chat(callCtx, messages, providers.ChatOptions{Temperature: 0.3})
	if err != nil {
		return AIResponse{}, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}

	parsed := ParseResponse(raw)
	return a.finalize(ctx, session, parsed), nil
}

// finalize turns a parsed model reply into the uniform response: execute
// any tool call, validate suggestions, and narrow displayed items to the
// validated list where that applies.
func (a *Agent) finalize(ctx context.Context, session string, parsed ParsedResponse) AIResponse {
	var resp AIResponse
	switch parsed.Action {
	case actionToolCall:
		resp = a.executor.ExecuteToolCall(ctx, session, parsed.Tool, parsed.Parameters, parsed.Message)

	case actionClarification:
		resp = AIResponse{
			Type:    UIClarificationNeeded,
			Message: parsed.Message,
		}

	default:
		resp = AIResponse{
			Type:    UIConversation,
			Message: parsed.Message,
		}
		if parsed.UIType != "" {
			resp.Type = UIType(parsed.UIType)
		}
	}

	if resp.Message == "" {
		resp.Message = "How can I help you with your order?"
	}

	if len(parsed.Suggestions) > 0 {
		validated := a.validator.Validate(parsed.Suggestions)
		resp.Suggestions = validated.Suggestions
		resp.HasInvalidSuggestions = validated.HadInvalid
		if validated.HadInvalid {
			observeDroppedSuggestions(len(parsed.Suggestions) - len(validated.Suggestions))
		}
		if resp.Type == UIMenuDisplay && len(resp.Items) > 0 && len(validated.Suggestions) > 0 {
			resp.Items = FilterItemsBySuggestions(resp.Items, validated.Suggestions)
		}
	}
	return resp
}

func (a *Agent) sessionFor(session string) *sessionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	state, ok := a.sessions[session]
	if !ok {
		state = &sessionState{}
		a.sessions[session] = state
	}
	return state
}
