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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// agentTracerName is the OTel tracer name for pipeline spans.
const agentTracerName = "menu.agent"

var (
	// turnDuration measures end-to-end utterance resolution time.
	//
	// Labels:
	//   - path: "llm", "fallback", or "classifier"
	//   - ui_type: the resulting response type
	turnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "menu",
			Subsystem: "agent",
			Name:      "turn_duration_seconds",
			Help:      "Duration of end-to-end utterance resolution in seconds.",
			Buckets:   []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 30},
		},
		[]string{"path", "ui_type"},
	)

	// turnsTotal counts resolved turns.
	//
	// Labels:
	//   - path: "llm", "fallback", or "classifier"
	//   - ui_type: the resulting response type
	turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menu",
			Subsystem: "agent",
			Name:      "turns_total",
			Help:      "Total number of resolved conversation turns.",
		},
		[]string{"path", "ui_type"},
	)

	// suggestionsDroppedTotal counts model-proposed item names the
	// validator rejected against the catalog.
	suggestionsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "menu",
			Subsystem: "agent",
			Name:      "suggestions_dropped_total",
			Help:      "Total number of hallucinated suggestions dropped by validation.",
		},
	)
)

func observeTurn(path, uiType string, elapsed time.Duration) {
	turnsTotal.WithLabelValues(path, uiType).Inc()
	turnDuration.WithLabelValues(path, uiType).Observe(elapsed.Seconds())
}

func observeDroppedSuggestions(n int) {
	if n > 0 {
		suggestionsDroppedTotal.Add(float64(n))
	}
}
