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
	"log/slog"
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
)

// wordOverlapThreshold is the minimum share of words that must match for
// the token-overlap tier to accept a candidate.
const wordOverlapThreshold = 0.70

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	priceSuffixRe   = regexp.MustCompile(`\s*-?\s*\$\d+(?:\.\d{1,2})?\s*$`)
)

// ValidationResult carries the validated suggestion list. Suggestions that
// matched a catalog item are replaced by that item's canonical name; the
// rest are dropped. If everything was dropped the list comes back empty
// with HadInvalid set, so the caller can clear suggestions entirely rather
// than show a fabricated name.
type ValidationResult struct {
	Suggestions []string
	HadInvalid  bool
}

// SuggestionValidator checks model-proposed item names against the
// canonical catalog. The invariant it enforces: no string leaves this
// stage unless it is, verbatim, a catalog item's name.
type SuggestionValidator struct {
	items []catalog.MenuItem
	log   *slog.Logger
}

func NewSuggestionValidator(items []catalog.MenuItem, logger *slog.Logger) *SuggestionValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestionValidator{items: items, log: logger}
}

// Validate maps each raw suggestion to a canonical catalog name or drops
// it. An all-dropped outcome clears the list; a mixed list of real and
// invented names must never reach the user.
func (v *SuggestionValidator) Validate(raw []string) ValidationResult {
	if len(raw) == 0 {
		return ValidationResult{}
	}

	validated := make([]string, 0, len(raw))
	dropped := 0
	for _, s := range raw {
		cleaned := cleanSuggestion(s)
		if cleaned == "" {
			dropped++
			continue
		}
		if item, ok := v.matchItem(cleaned); ok {
			validated = append(validated, item.Name)
			continue
		}
		dropped++
		v.log.Debug("dropped hallucinated suggestion", "suggestion", s)
	}

	if len(validated) == 0 {
		return ValidationResult{HadInvalid: true}
	}
	return ValidationResult{Suggestions: validated, HadInvalid: dropped > 0}
}

// matchItem runs the matching cascade against every catalog item:
// exact case-insensitive, then substring either direction, then
// token overlap. First hit wins in catalog order.
func (v *SuggestionValidator) matchItem(cleaned string) (catalog.MenuItem, bool) {
	lower := strings.ToLower(cleaned)
	for _, item := range v.items {
		if matchesName(lower, strings.ToLower(item.Name)) {
			return item, true
		}
	}
	return catalog.MenuItem{}, false
}

// matchesName reports whether a cleaned, lowercased candidate resolves to
// a lowercased canonical name under the exact / substring / token-overlap
// cascade. Shared with the presentation filter.
func matchesName(candidate, canonical string) bool {
	if candidate == canonical {
		return true
	}
	if strings.Contains(candidate, canonical) || strings.Contains(canonical, candidate) {
		return true
	}
	return wordOverlap(candidate, canonical) >= wordOverlapThreshold
}

// wordOverlap computes matched-word-count divided by the larger of the two
// word counts, considering only words longer than 3 characters. Zero when
// nothing matches exactly.
func wordOverlap(a, b string) float64 {
	aw := significantWords(a)
	bw := significantWords(b)
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(bw))
	for _, w := range bw {
		set[w] = struct{}{}
	}
	matched := 0
	for _, w := range aw {
		if _, ok := set[w]; ok {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	longest := len(aw)
	if len(bw) > longest {
		longest = len(bw)
	}
	return float64(matched) / float64(longest)
}

func significantWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

// cleanSuggestion strips the decoration models bolt onto item names:
// trailing parentheticals like "(150 cal)" and "- $12.99" price suffixes.
func cleanSuggestion(s string) string {
	s = parentheticalRe.ReplaceAllString(s, "")
	s = priceSuffixRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
