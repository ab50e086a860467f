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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Preferences accumulates what a session has revealed about the diner.
// It feeds the context builder so the model can personalize without the
// user repeating themselves every turn.
type Preferences struct {
	Dietary         []string
	SpiceLevel      string
	MaxPrice        float64
	HealthConscious bool
	Indulgent       bool
}

var underPriceRe = regexp.MustCompile(`under\s+\$(\d+(?:\.\d{1,2})?)`)

// Observe updates the preference memory from one utterance. Signals only
// accumulate; a later utterance never clears an earlier preference.
func (p *Preferences) Observe(utterance string) {
	msg := strings.ToLower(utterance)

	for _, tag := range []string{"vegetarian", "vegan", "gluten-free"} {
		if strings.Contains(msg, tag) && !containsString(p.Dietary, tag) {
			p.Dietary = append(p.Dietary, tag)
		}
	}
	if strings.Contains(msg, "gluten free") && !containsString(p.Dietary, "gluten-free") {
		p.Dietary = append(p.Dietary, "gluten-free")
	}

	switch {
	case strings.Contains(msg, "very hot") || strings.Contains(msg, "extra spicy"):
		p.SpiceLevel = "very hot"
	case strings.Contains(msg, "spicy") || strings.Contains(msg, "hot"):
		p.SpiceLevel = "spicy"
	case strings.Contains(msg, "mild") || strings.Contains(msg, "not spicy"):
		p.SpiceLevel = "mild"
	}

	if m := underPriceRe.FindStringSubmatch(msg); m != nil {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil && price > 0 {
			p.MaxPrice = price
		}
	}

	if strings.Contains(msg, "healthy") || strings.Contains(msg, "light") ||
		strings.Contains(msg, "low calorie") || strings.Contains(msg, "diet") {
		p.HealthConscious = true
	}
	if strings.Contains(msg, "indulgent") || strings.Contains(msg, "treat myself") ||
		strings.Contains(msg, "comfort food") || strings.Contains(msg, "hearty") {
		p.Indulgent = true
	}
}

// Summary renders the remembered preferences as a short clause for the
// system prompt, or "" when nothing has been learned yet.
func (p *Preferences) Summary() string {
	var parts []string
	if len(p.Dietary) > 0 {
		parts = append(parts, "dietary: "+strings.Join(p.Dietary, ", "))
	}
	if p.SpiceLevel != "" {
		parts = append(parts, "spice preference: "+p.SpiceLevel)
	}
	if p.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("budget: under $%.2f", p.MaxPrice))
	}
	if p.HealthConscious {
		parts = append(parts, "health-conscious")
	}
	if p.Indulgent {
		parts = append(parts, "in the mood to indulge")
	}
	return strings.Join(parts, "; ")
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
