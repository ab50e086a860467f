// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package providers defines the provider-agnostic chat interface and factory
// for the LLM backends the menu agent can run on. The agent only ever sees
// ChatClient; which cloud API answers is a deployment decision.
//
// Thread Safety:
//
//	All interfaces in this package must be implemented as safe for
//	concurrent use.
package providers

import (
	"context"

	"github.com/AleutianAI/AleutianMenu/services/orchestrator/datatypes"
)

// ChatClient is the minimal interface the intent resolver needs.
//
// Description:
//
//	Intent resolution is simple chat: send conversation plus menu context,
//	get text back. No streaming, no native tool calls. The tool protocol
//	rides inside the response text as JSON and is parsed downstream, so
//	adapters stay trivial for any provider.
//
// Thread Safety: implementations must be safe for concurrent use.
type ChatClient interface {
	// Chat sends messages and returns the assistant's response text.
	//
	// Inputs:
	//   - ctx: context for cancellation and timeout.
	//   - messages: conversation messages (system, user, assistant).
	//   - opts: provider-agnostic chat options.
	//
	// Outputs:
	//   - string: the assistant's response text.
	//   - error: non-nil on failure.
	Chat(ctx context.Context, messages []datatypes.Message, opts ChatOptions) (string, error)
}

// ChatOptions holds provider-agnostic options for a chat request.
type ChatOptions struct {
	// Temperature controls randomness (0.0-1.0). The Go zero value is
	// treated as an explicit "most deterministic" setting; a negative
	// value omits the parameter and uses the provider default.
	Temperature float64

	// MaxTokens limits the response length. Zero uses the provider default.
	MaxTokens int
}
