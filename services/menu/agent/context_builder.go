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
	"strings"

	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
	"github.com/AleutianAI/AleutianMenu/services/menu/tools"
	"github.com/AleutianAI/AleutianMenu/services/orchestrator/datatypes"
)

const (
	// menuItemsPerCategory caps how many items each category contributes
	// to the system prompt. The full catalog would blow the token budget
	// for nothing; the model can always call menu_search.
	menuItemsPerCategory = 5

	// historyWindow is the number of recent turns replayed to the model.
	historyWindow = 6
)

// ContextBuilder renders the per-turn prompt payload: a compact catalog
// summary, cart state, remembered preferences, and the tool protocol. It
// is a pure function of its inputs and holds no state of its own.
type ContextBuilder struct {
	store *catalog.Store
}

func NewContextBuilder(store *catalog.Store) *ContextBuilder {
	return &ContextBuilder{store: store}
}

// BuildSystemPrompt assembles the system context for one turn.
//
// Description:
//
//	Lists the available tools, summarizes the menu per category (capped,
//	with an explicit "and N more" tail), reports the session's cart and
//	remembered preferences, and pins the JSON response protocol.
//
// Inputs:
//   - session: cart session id, used only to read cart size and total.
//   - prefs: remembered preferences, may be nil.
//
// Outputs:
//   - The complete system prompt string.
func (b *ContextBuilder) BuildSystemPrompt(session string, prefs *Preferences) string {
	var sb strings.Builder

	sb.WriteString("You are a friendly restaurant ordering assistant. ")
	sb.WriteString("You help customers browse the menu, get recommendations, and manage their cart.\n\n")

	sb.WriteString("AVAILABLE TOOLS:\n")
	for _, spec := range tools.Specs() {
		fmt.Fprintf(&sb, "- %s: %s\n", spec.Name, spec.Description)
	}

	contents := b.store.CartContents(session)
	sb.WriteString("\nCURRENT CONTEXT:\n")
	fmt.Fprintf(&sb, "- Cart: %d item(s), total $%s\n", contents.ItemCount, contents.Total)
	if prefs != nil {
		if summary := prefs.Summary(); summary != "" {
			fmt.Fprintf(&sb, "- Customer preferences: %s\n", summary)
		}
	}

	sb.WriteString("\nMENU:\n")
	b.writeMenuSummary(&sb)

	sb.WriteString(`
CRITICAL RULES:
1. ONLY mention items that appear in the MENU section above. Never invent items.
2. To perform an action, respond with a tool_call. Do not claim an action happened without calling the tool.
3. When adding to the cart, prefer the item's id. If the customer gave only a name, pass itemName and the system will resolve it.
4. When several items could match, ask for clarification instead of guessing.
5. Keep messages short and conversational.

RESPONSE FORMAT:
Respond with a single JSON object and nothing else. No markdown fences.
{"action": "tool_call", "tool": "<tool name>", "parameters": {...}, "message": "<text shown to the customer>"}
or
{"action": "conversation", "message": "<text>", "suggestions": ["<menu item name>", ...], "ui_type": "conversation"}
or
{"action": "clarification", "message": "<question>", "suggestions": ["<option>", ...], "ui_type": "clarification_needed"}

Examples:
User: "show me the menu"
{"action": "tool_call", "tool": "menu_get_categories", "parameters": {}, "message": "Here's our menu!"}
User: "add two beef burgers"
{"action": "tool_call", "tool": "cart_add_item", "parameters": {"itemName": "Beef Burger", "quantity": 2}, "message": "Adding 2 Beef Burgers to your cart."}
User: "thanks"
{"action": "conversation", "message": "You're welcome! Anything else I can get you?", "ui_type": "conversation"}
`)

	return sb.String()
}

// writeMenuSummary emits each category's items (name, price, a few flags)
// capped per category with an explicit truncation tail.
func (b *ContextBuilder) writeMenuSummary(sb *strings.Builder) {
	byCategory := make(map[catalog.Category][]catalog.MenuItem)
	for _, item := range b.store.Items() {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	for _, category := range catalog.Categories {
		items := byCategory[category]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(sb, "%s:\n", category)
		shown := items
		if len(shown) > menuItemsPerCategory {
			shown = shown[:menuItemsPerCategory]
		}
		for _, item := range shown {
			fmt.Fprintf(sb, "  - %s ($%.2f, id: %s)", item.Name, item.Price, item.ID)
			var flags []string
			if len(item.Dietary) > 0 {
				flags = append(flags, strings.Join(item.Dietary, "/"))
			}
			if item.SpicyLevel >= 2 {
				flags = append(flags, "spicy")
			}
			if len(flags) > 0 {
				fmt.Fprintf(sb, " [%s]", strings.Join(flags, ", "))
			}
			sb.WriteString("\n")
		}
		if extra := len(items) - len(shown); extra > 0 {
			fmt.Fprintf(sb, "  ... and %d more\n", extra)
		}
	}
}

// BuildMessages converts the recent history window plus the current
// utterance into the chat message sequence for the provider. Only the
// most recent turns are replayed.
func (b *ContextBuilder) BuildMessages(history []ConversationTurn, userInput string) []datatypes.Message {
	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	messages := make([]datatypes.Message, 0, len(window)+1)
	for _, turn := range window {
		messages = append(messages, datatypes.Message{Role: turn.Role, Content: turn.Content})
	}
	return append(messages, datatypes.Message{Role: datatypes.RoleUser, Content: userInput})
}
