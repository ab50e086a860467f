// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import "regexp"

// redactionPattern pairs a compiled regex with a labeled replacement so the
// log reader knows what class of secret was present without seeing it.
type redactionPattern struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// redactionPatterns is the ordered list of secret patterns to redact.
//
// Order matters: the Anthropic pattern must appear before the generic
// OpenAI "sk-" pattern or "sk-ant-..." keys get partially redacted.
var redactionPatterns = []redactionPattern{
	// Anthropic API key: sk-ant-api03-<base62>
	{
		Pattern:     regexp.MustCompile(`sk-ant-api03-[A-Za-z0-9_-]{20,}`),
		Replacement: "[REDACTED:anthropic_key]",
	},
	// OpenAI API key: sk-<base62, 20+ chars>. The length floor keeps short
	// strings like "sk-test" out of the match.
	{
		Pattern:     regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
		Replacement: "[REDACTED:openai_key]",
	},
	// Bearer token in Authorization header values
	{
		Pattern:     regexp.MustCompile(`Bearer\s+[A-Za-z0-9._-]{10,}`),
		Replacement: "[REDACTED:bearer_token]",
	},
	// API key in URL query parameter: key=<value>
	{
		Pattern:     regexp.MustCompile(`key=[A-Za-z0-9._-]{10,}`),
		Replacement: "key=[REDACTED]",
	},
	// Password in connection strings or config: password=<value>
	{
		Pattern:     regexp.MustCompile(`password=[^\s&]{3,}`),
		Replacement: "password=[REDACTED]",
	},
}

// SafeLogString redacts known secret patterns from a string before logging.
//
// Description:
//
//	Provider error bodies sometimes echo the failing credential back.
//	Every response body or error message that reaches a log line goes
//	through this first. Pattern-based only: a secret with a format we
//	have never seen passes through untouched.
//
// Inputs:
//   - s: the string to redact; empty is valid
//
// Outputs:
//   - string: the input with matched secrets replaced, otherwise unchanged
//
// Thread Safety: safe for concurrent use.
func SafeLogString(s string) string {
	if s == "" {
		return s
	}
	for _, p := range redactionPatterns {
		s = p.Pattern.ReplaceAllString(s, p.Replacement)
	}
	return s
}
