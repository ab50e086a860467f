// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package providers

import (
	"fmt"
	"log/slog"

	"github.com/AleutianAI/AleutianMenu/services/llm"
)

// ProviderFactory creates ChatClient adapters from provider configuration.
//
// Description:
//
//	The single creation point for LLM adapters. Keeping construction here
//	means the pipeline never imports a concrete provider package and a
//	new backend is one more case in CreateChatClient.
//
// Thread Safety: ProviderFactory is safe for concurrent use after
// construction.
type ProviderFactory struct {
	logger *slog.Logger
}

// NewProviderFactory creates a new ProviderFactory.
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{logger: slog.Default()}
}

// CreateChatClient creates a ChatClient adapter for the given provider config.
//
// Inputs:
//   - cfg: provider configuration specifying provider type, model, and key.
//
// Outputs:
//   - ChatClient: the chat adapter for the specified provider.
//   - error: non-nil if the provider is unsupported or the API key is
//     missing.
//
// Example:
//
//	client, err := factory.CreateChatClient(ProviderConfig{
//	    Provider: "anthropic",
//	    Model:    "claude-3-5-sonnet-20240620",
//	    APIKey:   "sk-ant-...",
//	})
func (f *ProviderFactory) CreateChatClient(cfg ProviderConfig) (ChatClient, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY required for Anthropic provider")
		}
		client := llm.NewAnthropicClientWithConfig(cfg.APIKey, cfg.Model, "")
		f.logger.Info("Created Anthropic chat adapter", "model", cfg.Model)
		return NewAnthropicChatAdapter(client), nil

	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY required for OpenAI provider")
		}
		client := llm.NewOpenAIClientWithConfig(cfg.APIKey, cfg.Model, "")
		f.logger.Info("Created OpenAI chat adapter", "model", cfg.Model)
		return NewOpenAIChatAdapter(client), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %q (valid: %v)", cfg.Provider, ValidProviders)
	}
}
