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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferProvider(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"claude-3-5-sonnet-20240620", ProviderAnthropic},
		{"claude-haiku-4-5-20251001", ProviderAnthropic},
		{"gpt-4o-mini", ProviderOpenAI},
		{"gpt-5", ProviderOpenAI},
		{"granite4:micro-h", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferProvider(tt.model), tt.model)
	}
}

func TestLoadProviderConfig(t *testing.T) {
	t.Run("explicit provider wins", func(t *testing.T) {
		t.Setenv("MENU_LLM_PROVIDER", "openai")
		t.Setenv("MENU_LLM_MODEL", "claude-3-5-sonnet-20240620")
		t.Setenv("OPENAI_API_KEY", "sk-test")

		cfg := LoadProviderConfig()
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "sk-test", cfg.APIKey)
	})

	t.Run("provider inferred from model", func(t *testing.T) {
		t.Setenv("MENU_LLM_PROVIDER", "")
		t.Setenv("MENU_LLM_MODEL", "gpt-4o-mini")
		t.Setenv("OPENAI_API_KEY", "sk-test")

		cfg := LoadProviderConfig()
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.Model)
	})

	t.Run("defaults to anthropic", func(t *testing.T) {
		t.Setenv("MENU_LLM_PROVIDER", "")
		t.Setenv("MENU_LLM_MODEL", "")
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

		cfg := LoadProviderConfig()
		assert.Equal(t, ProviderAnthropic, cfg.Provider)
		assert.Equal(t, "sk-ant-test", cfg.APIKey)
	})

	t.Run("unknown provider falls back to anthropic", func(t *testing.T) {
		t.Setenv("MENU_LLM_PROVIDER", "ollama")
		cfg := LoadProviderConfig()
		assert.Equal(t, ProviderAnthropic, cfg.Provider)
	})
}

func TestProviderFactory_CreateChatClient(t *testing.T) {
	factory := NewProviderFactory()

	t.Run("anthropic", func(t *testing.T) {
		client, err := factory.CreateChatClient(ProviderConfig{
			Provider: ProviderAnthropic,
			Model:    "claude-3-5-sonnet-20240620",
			APIKey:   "sk-ant-test",
		})
		require.NoError(t, err)
		assert.IsType(t, &AnthropicChatAdapter{}, client)
	})

	t.Run("openai", func(t *testing.T) {
		client, err := factory.CreateChatClient(ProviderConfig{
			Provider: ProviderOpenAI,
			Model:    "gpt-4o-mini",
			APIKey:   "sk-test",
		})
		require.NoError(t, err)
		assert.IsType(t, &OpenAIChatAdapter{}, client)
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := factory.CreateChatClient(ProviderConfig{Provider: ProviderAnthropic})
		assert.Error(t, err)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		_, err := factory.CreateChatClient(ProviderConfig{Provider: "gemini", APIKey: "x"})
		assert.Error(t, err)
	})
}

func TestClassifyChatError(t *testing.T) {
	assert.Equal(t, "", classifyChatError(nil))
	assert.Equal(t, "timeout", classifyChatError(errFromMsg("context deadline exceeded")))
	assert.Equal(t, "auth", classifyChatError(errFromMsg("anthropic: API returned status 401: authentication_error")))
	assert.Equal(t, "rate_limit", classifyChatError(errFromMsg("openai: API returned 429")))
	assert.Equal(t, "server", classifyChatError(errFromMsg("API returned 503")))
	assert.Equal(t, "nil_client", classifyChatError(errFromMsg("Anthropic client is nil")))
	assert.Equal(t, "unknown", classifyChatError(errFromMsg("something odd")))
}

type errFromMsg string

func (e errFromMsg) Error() string { return string(e) }
