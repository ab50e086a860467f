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
	"encoding/json"
	"regexp"
	"strings"
)

// ParsedResponse is the intermediate structure produced by ParseResponse.
// Regardless of which recovery tier produced it, downstream stages treat
// it identically to a cleanly parsed model reply.
type ParsedResponse struct {
	Action      string         `json:"action"`
	Tool        string         `json:"tool,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Message     string         `json:"message,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	UIType      string         `json:"ui_type,omitempty"`
}

const (
	actionToolCall      = "tool_call"
	actionConversation  = "conversation"
	actionClarification = "clarification"
)

var (
	toolFieldRe    = regexp.MustCompile(`"tool"\s*:\s*"([^"]+)"`)
	messageFieldRe = regexp.MustCompile(`"message"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	uiTypeFieldRe  = regexp.MustCompile(`"ui_type"\s*:\s*"([^"]+)"`)
	suggestionsRe  = regexp.MustCompile(`"suggestions"\s*:\s*(\[[^\]]*\])`)
	parametersRe   = regexp.MustCompile(`"parameters"\s*:\s*(\{[^{}]*\})`)
)

// ParseResponse extracts a structured reply from raw model output. The text
// is untrusted and frequently messy. Recovery is tiered and never fails:
//
//  1. Parse the whole text as JSON.
//  2. Bound by the first '{' and last '}' and parse the substring. Prose
//     before and after the object is folded into the message, space-joined
//     around the object's own message field.
//  3. Regex-extract individual fields from the bounded substring. Fields
//     that cannot be recovered are simply absent.
//  4. No JSON-like structure at all: the entire text is a conversational
//     message.
//
// Whatever tier fires, the caller always receives a usable ParsedResponse.
func ParseResponse(raw string) ParsedResponse {
	text := stripMarkdownFences(strings.TrimSpace(raw))

	// Tier 1: the whole text is one JSON object.
	if parsed, ok := tryParseObject(text); ok {
		return normalize(parsed)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		// Tier 4: plain prose.
		return ParsedResponse{
			Action:  actionConversation,
			Message: text,
			UIType:  string(UIConversation),
		}
	}

	leadIn := strings.TrimSpace(text[:start])
	trailOff := strings.TrimSpace(text[end+1:])
	bounded := text[start : end+1]

	// Tier 2: the bounded substring parses; surrounding prose joins the
	// object's own message.
	if parsed, ok := tryParseObject(bounded); ok {
		out := normalize(parsed)
		out.Message = joinNonEmpty(leadIn, out.Message, trailOff)
		return out
	}

	// Tier 3: the object is malformed; salvage fields one at a time.
	out := extractFields(bounded)
	out.Message = joinNonEmpty(leadIn, out.Message, trailOff)
	if out.Message == "" && out.Tool == "" {
		out.Message = text
	}
	return normalize(out)
}

func tryParseObject(text string) (ParsedResponse, bool) {
	var parsed ParsedResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return ParsedResponse{}, false
	}
	return parsed, true
}

// extractFields recovers individual fields from a malformed JSON fragment.
// A field the regexes cannot locate is left zero-valued, never an error.
func extractFields(text string) ParsedResponse {
	var out ParsedResponse
	if m := toolFieldRe.FindStringSubmatch(text); m != nil {
		out.Tool = m[1]
	}
	if m := messageFieldRe.FindStringSubmatch(text); m != nil {
		out.Message = unescapeJSONString(m[1])
	}
	if m := uiTypeFieldRe.FindStringSubmatch(text); m != nil {
		out.UIType = m[1]
	}
	if m := suggestionsRe.FindStringSubmatch(text); m != nil {
		var suggestions []string
		if err := json.Unmarshal([]byte(m[1]), &suggestions); err == nil {
			out.Suggestions = suggestions
		}
	}
	if m := parametersRe.FindStringSubmatch(text); m != nil {
		var params map[string]any
		if err := json.Unmarshal([]byte(m[1]), &params); err == nil {
			out.Parameters = params
		}
	}
	return out
}

// normalize fills derivable fields so downstream code never branches on
// which tier produced the response.
func normalize(p ParsedResponse) ParsedResponse {
	if p.Action == "" {
		if p.Tool != "" {
			p.Action = actionToolCall
		} else {
			p.Action = actionConversation
		}
	}
	if p.UIType == "" && p.Action == actionConversation {
		p.UIType = string(UIConversation)
	}
	return p
}

// stripMarkdownFences removes a surrounding ```json ... ``` (or bare ```)
// code fence. Models add these despite instructions not to.
func stripMarkdownFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	trimmed := strings.TrimPrefix(text, "```json")
	if trimmed == text {
		trimmed = strings.TrimPrefix(text, "```")
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func unescapeJSONString(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\n`, "\n")
	return s
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
