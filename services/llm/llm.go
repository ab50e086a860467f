// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm provides raw net/http clients for cloud LLM providers.
// No third-party SDKs: the wire types live here, requests are plain JSON,
// and every response body passes through SafeLogString before logging.
package llm

import (
	"context"

	"github.com/AleutianAI/AleutianMenu/services/orchestrator/datatypes"
)

// GenerationParams holds provider-agnostic generation options. Pointer
// fields are omitted from the request when nil so the provider default
// applies.
type GenerationParams struct {
	Temperature *float32
	MaxTokens   *int
	TopP        *float32
	Stop        []string
}

// LLMClient is the minimal generation interface the menu agent needs.
//
// Thread Safety: implementations must be safe for concurrent use.
type LLMClient interface {
	// Generate sends a single-turn prompt and returns the response text.
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)

	// Chat sends a multi-turn conversation and returns the assistant's
	// response text. A message with role "system" becomes the provider's
	// system prompt.
	Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error)
}
