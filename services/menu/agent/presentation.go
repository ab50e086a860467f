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
	"strings"

	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
)

// FilterItemsBySuggestions narrows a tool result to the items named by a
// validated suggestion list, using the same matching cascade as the
// suggestion validator. When filtering would leave nothing to display but
// the unfiltered result is non-empty, the unfiltered result is returned
// instead. An over-broad panel beats an empty one.
func FilterItemsBySuggestions(items []catalog.MenuItem, suggestions []string) []catalog.MenuItem {
	if len(suggestions) == 0 || len(items) == 0 {
		return items
	}

	lowered := make([]string, len(suggestions))
	for i, s := range suggestions {
		lowered[i] = strings.ToLower(cleanSuggestion(s))
	}

	filtered := make([]catalog.MenuItem, 0, len(suggestions))
	for _, item := range items {
		name := strings.ToLower(item.Name)
		for _, s := range lowered {
			if matchesName(s, name) {
				filtered = append(filtered, item)
				break
			}
		}
	}

	if len(filtered) == 0 {
		return items
	}
	return filtered
}
