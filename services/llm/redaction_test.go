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

import (
	"strings"
	"testing"
)

func TestSafeLogString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		notWant string
	}{
		{
			name:    "anthropic key",
			input:   "error: sk-ant-REDACTED returned 401",
			want:    "[REDACTED:anthropic_key]",
			notWant: "sk-ant-REDACTED",
		},
		{
			name:    "openai key",
			input:   "auth failed for sk-abcdefghijklmnopqrstuv",
			want:    "[REDACTED:openai_key]",
			notWant: "sk-abcdefghijklmnopqrstuv",
		},
		{
			name:    "anthropic key never partially matches openai pattern",
			input:   "sk-ant-REDACTED",
			want:    "[REDACTED:anthropic_key]",
			notWant: "[REDACTED:openai_key]",
		},
		{
			name:    "bearer token",
			input:   "Authorization: Bearer abc123def456ghi789",
			want:    "[REDACTED:bearer_token]",
			notWant: "abc123def456ghi789",
		},
		{
			name:    "query parameter key",
			input:   "GET /v1/menu/chat?key=abcdef1234567890",
			want:    "key=[REDACTED]",
			notWant: "abcdef1234567890",
		},
		{
			name:    "password",
			input:   "dsn: host=db password=hunter22 user=menu",
			want:    "password=[REDACTED]",
			notWant: "hunter22",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeLogString(tt.input)
			if !strings.Contains(got, tt.want) {
				t.Errorf("SafeLogString(%q) = %q, want substring %q", tt.input, got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("SafeLogString(%q) = %q, still contains %q", tt.input, got, tt.notWant)
			}
		})
	}
}

func TestSafeLogString_NoSecrets(t *testing.T) {
	in := "added 2x Beef Burger to cart"
	if got := SafeLogString(in); got != in {
		t.Errorf("SafeLogString(%q) = %q, want unchanged", in, got)
	}
}

func TestSafeLogString_Empty(t *testing.T) {
	if got := SafeLogString(""); got != "" {
		t.Errorf("SafeLogString(\"\") = %q, want \"\"", got)
	}
}
