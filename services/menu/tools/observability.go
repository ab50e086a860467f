// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tools

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// toolTracerName is the OTel tracer name for dispatcher spans.
const toolTracerName = "menu.tools"

// Package-level Prometheus metrics for tool dispatch. Auto-registered via
// promauto so no explicit registry wiring is needed.
var (
	// toolCallDuration measures tool execution time.
	//
	// Labels:
	//   - tool: the tool name
	//   - status: "success" or "error"
	toolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "menu",
			Subsystem: "tools",
			Name:      "call_duration_seconds",
			Help:      "Duration of tool dispatch calls in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"tool", "status"},
	)

	// toolCallsTotal counts tool dispatch calls.
	//
	// Labels:
	//   - tool: the tool name
	//   - status: "success" or "error"
	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menu",
			Subsystem: "tools",
			Name:      "calls_total",
			Help:      "Total number of tool dispatch calls.",
		},
		[]string{"tool", "status"},
	)
)

func observeToolCall(tool Tool, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	toolCallsTotal.WithLabelValues(string(tool), status).Inc()
	toolCallDuration.WithLabelValues(string(tool), status).Observe(elapsed.Seconds())
}
