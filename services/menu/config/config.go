// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the menu service's runtime switches from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by Load.
const (
	EnvLLMEnabled    = "MENU_LLM_ENABLED"
	EnvLLMFallback   = "MENU_LLM_FALLBACK"
	EnvLLMTimeout    = "MENU_LLM_TIMEOUT"
	EnvDebug         = "MENU_DEBUG"
	EnvCatalogFile   = "MENU_CATALOG_FILE"
	EnvRecommendSeed = "MENU_RECOMMEND_SEED"
	EnvPort          = "PORT"
)

// Config is the resolved service configuration.
type Config struct {
	// LLMEnabled turns on the model-driven resolution path. Off by
	// default: the service is fully functional on the rule-based
	// classifier alone, and the model path needs a provider API key.
	LLMEnabled bool

	// FallbackEnabled routes to the classifier when a model call fails.
	// On by default so a provider outage degrades instead of erroring.
	FallbackEnabled bool

	// LLMTimeout bounds a single model call.
	LLMTimeout time.Duration

	// Debug enables verbose request logging.
	Debug bool

	// CatalogFile optionally points at a YAML catalog that replaces the
	// built-in menu.
	CatalogFile string

	// RecommendSeed seeds the shuffle for preference-less
	// recommendations. Zero keeps catalog order.
	RecommendSeed int64

	// Port is the HTTP listen port.
	Port int
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
//
// Outputs:
//   - The resolved Config.
//   - An error naming the variable when a set value fails to parse.
//     Unset variables never error.
func Load() (Config, error) {
	cfg := Config{
		FallbackEnabled: true,
		LLMTimeout:      15 * time.Second,
		Port:            8080,
	}

	var err error
	if cfg.LLMEnabled, err = boolEnv(EnvLLMEnabled, cfg.LLMEnabled); err != nil {
		return Config{}, err
	}
	if cfg.FallbackEnabled, err = boolEnv(EnvLLMFallback, cfg.FallbackEnabled); err != nil {
		return Config{}, err
	}
	if cfg.Debug, err = boolEnv(EnvDebug, cfg.Debug); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(EnvLLMTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("config: %s: invalid duration %q", EnvLLMTimeout, v)
		}
		cfg.LLMTimeout = d
	}

	cfg.CatalogFile = os.Getenv(EnvCatalogFile)

	if v := os.Getenv(EnvRecommendSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: invalid seed %q", EnvRecommendSeed, v)
		}
		cfg.RecommendSeed = seed
	}

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return Config{}, fmt.Errorf("config: %s: invalid port %q", EnvPort, v)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: invalid boolean %q", key, v)
	}
	return parsed, nil
}
