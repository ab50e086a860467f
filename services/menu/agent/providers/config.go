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
	"os"
	"strings"
)

// Provider constants for supported LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// ValidProviders contains the set of valid provider names.
var ValidProviders = []string{ProviderAnthropic, ProviderOpenAI}

// ProviderConfig holds the configuration for a single LLM provider instance.
type ProviderConfig struct {
	// Provider is the backend to use: "anthropic" or "openai".
	Provider string

	// Model is the provider-specific model identifier.
	// Examples: "claude-3-5-sonnet-20240620", "gpt-4o-mini".
	Model string

	// APIKey is the authentication key for the provider. Loaded from
	// ANTHROPIC_API_KEY or OPENAI_API_KEY.
	APIKey string
}

// isValidProvider checks if a provider name is valid.
func isValidProvider(provider string) bool {
	for _, p := range ValidProviders {
		if provider == p {
			return true
		}
	}
	return false
}

// InferProvider infers the provider from a model name prefix.
//
// Description:
//
//	Maps known model name prefixes to provider names:
//	  - "claude-*" -> "anthropic"
//	  - "gpt-*"    -> "openai"
//	  - anything else -> "" (unknown)
//
//	Used when MENU_LLM_MODEL is set without MENU_LLM_PROVIDER.
//
// Inputs:
//   - model: the model name to infer from.
//
// Outputs:
//   - string: the inferred provider name, or empty string if unknown.
func InferProvider(model string) string {
	if strings.HasPrefix(model, "claude-") {
		return ProviderAnthropic
	}
	if strings.HasPrefix(model, "gpt-") {
		return ProviderOpenAI
	}
	return ""
}

// LoadProviderConfig reads provider configuration from environment variables.
//
// Description:
//
//	Resolution order:
//	  1. MENU_LLM_PROVIDER -> explicit provider
//	  2. Inferred from MENU_LLM_MODEL prefix
//	  3. Default: "anthropic"
//
//	The API key is resolved from the provider's standard variable
//	(ANTHROPIC_API_KEY or OPENAI_API_KEY). An unset key is not an error
//	here; the factory rejects it when a client is actually constructed,
//	so rule-only deployments need no credentials at all.
//
// Outputs:
//   - ProviderConfig: the resolved configuration.
func LoadProviderConfig() ProviderConfig {
	provider := strings.ToLower(os.Getenv("MENU_LLM_PROVIDER"))
	model := os.Getenv("MENU_LLM_MODEL")

	if provider == "" && model != "" {
		provider = InferProvider(model)
	}
	if !isValidProvider(provider) {
		provider = ProviderAnthropic
	}

	cfg := ProviderConfig{Provider: provider, Model: model}
	switch provider {
	case ProviderAnthropic:
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case ProviderOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg
}
