// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command menu starts the Aleutian Menu server.
//
// Aleutian Menu is a conversational food-ordering service:
//   - Session-keyed catalog/cart store with a closed tool surface
//   - LLM-driven intent resolution with a deterministic rule-based fallback
//   - Anti-hallucination validation of every model-proposed item name
//
// Usage:
//
//	go run ./cmd/menu
//	go run ./cmd/menu -port 9090
//	go run ./cmd/menu -stdio
//
// With a model provider:
//
//	MENU_LLM_ENABLED=true ANTHROPIC_API_KEY=... go run ./cmd/menu
//	MENU_LLM_ENABLED=true MENU_LLM_MODEL=gpt-4o-mini OPENAI_API_KEY=... go run ./cmd/menu
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/menu/health
//
//	# List tools
//	curl http://localhost:8080/v1/menu/tools | jq
//
//	# Invoke a tool
//	curl -X POST http://localhost:8080/v1/menu/call \
//	  -H "Content-Type: application/json" \
//	  -d '{"tool": "menu_search", "arguments": {"query": "chicken"}}'
//
//	# Conversational ordering
//	curl -X POST http://localhost:8080/v1/menu/chat \
//	  -H "Content-Type: application/json" \
//	  -d '{"message": "add 2 beef burgers", "sessionId": "table-7"}'
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/AleutianAI/AleutianMenu/services/menu"
	"github.com/AleutianAI/AleutianMenu/services/menu/agent"
	"github.com/AleutianAI/AleutianMenu/services/menu/agent/providers"
	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
	"github.com/AleutianAI/AleutianMenu/services/menu/config"
	"github.com/AleutianAI/AleutianMenu/services/menu/tools"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides PORT)")
	debug := flag.Bool("debug", false, "Enable debug mode (overrides MENU_DEBUG)")
	stdio := flag.Bool("stdio", false, "Serve newline-delimited JSON on stdin/stdout instead of HTTP")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *debug {
		cfg.Debug = true
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	items := catalog.DefaultCatalog()
	if cfg.CatalogFile != "" {
		items, err = catalog.LoadCatalogFile(cfg.CatalogFile)
		if err != nil {
			slog.Error("Failed to load catalog file",
				slog.String("path", cfg.CatalogFile),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("Loaded catalog file", slog.String("path", cfg.CatalogFile), slog.Int("items", len(items)))
	}

	store, err := catalog.NewStore(catalog.StoreConfig{
		Items:         items,
		RecommendSeed: cfg.RecommendSeed,
	})
	if err != nil {
		slog.Error("Invalid catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dispatcher := tools.NewDispatcher(store, slog.Default())

	var chatClient providers.ChatClient
	if cfg.LLMEnabled {
		providerCfg := providers.LoadProviderConfig()
		client, err := providers.NewProviderFactory().CreateChatClient(providerCfg)
		if err != nil {
			slog.Warn("Model provider unavailable, running on the rule-based classifier",
				slog.String("provider", string(providerCfg.Provider)),
				slog.String("error", err.Error()))
		} else {
			chatClient = client
			slog.Info("Model provider ready",
				slog.String("provider", string(providerCfg.Provider)),
				slog.String("model", providerCfg.Model))
		}
	}

	ag := agent.New(dispatcher, agent.Options{
		LLMEnabled:      cfg.LLMEnabled && chatClient != nil,
		FallbackEnabled: cfg.FallbackEnabled,
		LLMTimeout:      cfg.LLMTimeout,
		Client:          chatClient,
		Logger:          slog.Default(),
	})

	if *stdio {
		srv := menu.NewStdioServer(dispatcher, ag, slog.Default())
		if err := srv.Run(context.Background(), os.Stdin, os.Stdout); err != nil {
			slog.Error("Stdio server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	handlers := menu.NewHandlers(dispatcher, ag, slog.Default())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("aleutian-menu"))
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	menu.RegisterRoutes(v1, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	printBanner(cfg, chatClient != nil)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("Shutting down Aleutian Menu server")
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Starting Aleutian Menu server", slog.String("address", addr))
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func printBanner(cfg config.Config, llmReady bool) {
	mode := "classifier only"
	if llmReady {
		mode = "model + classifier fallback"
		if !cfg.FallbackEnabled {
			mode = "model only"
		}
	}
	fmt.Printf(`
Aleutian Menu
  port:    %d
  mode:    %s
  debug:   %v

  health:  GET  /v1/menu/health
  tools:   GET  /v1/menu/tools
  call:    POST /v1/menu/call
  chat:    POST /v1/menu/chat
  metrics: GET  /metrics

`, cfg.Port, mode, cfg.Debug)
}
