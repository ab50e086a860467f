// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package agent is the conversational intent-resolution pipeline: it turns a
// free-text utterance into a typed Intent (via the LLM when available, via
// the rule-based classifier otherwise), executes the intent against the tool
// dispatcher, and reconciles the result into a uniform AIResponse.
//
// The hard guarantee this package carries is anti-hallucination: no item
// name reaches the user unless it resolves to a canonical catalog entry.
package agent

import (
	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
	"github.com/AleutianAI/AleutianMenu/services/menu/tools"
)

// UIType tags an AIResponse with how the caller should render it.
type UIType string

const (
	UIMenuDisplay         UIType = "menu_display"
	UICartUpdate          UIType = "cart_update"
	UIShowCart            UIType = "show_cart"
	UIClarificationNeeded UIType = "clarification_needed"
	UIConversation        UIType = "conversation"
	UIError               UIType = "error"
)

// IntentKind enumerates the closed intent taxonomy. Both resolution paths
// (LLM and classifier) produce the same kinds, so everything downstream is
// agnostic to which path resolved the utterance.
type IntentKind string

const (
	IntentShowMenu       IntentKind = "show_menu"
	IntentSearchMenu     IntentKind = "search_menu"
	IntentAddToCart      IntentKind = "add_to_cart"
	IntentRemoveFromCart IntentKind = "remove_from_cart"
	IntentRecommend      IntentKind = "get_recommendations"
	IntentShowCart       IntentKind = "show_cart"
	IntentClearCart      IntentKind = "clear_cart"
	IntentConversation   IntentKind = "conversation"
	IntentUnknown        IntentKind = "unknown"
)

// PriceSort selects the ordering for price-superlative queries.
type PriceSort string

const (
	PriceSortNone PriceSort = ""
	PriceSortAsc  PriceSort = "asc"
	PriceSortDesc PriceSort = "desc"
)

// Intent is the typed resolution of one utterance.
//
// Description:
//
//	Created per turn and discarded after execution, never persisted.
//	Which fields are meaningful depends on Kind: ShowMenu reads Filters,
//	SearchMenu reads Query, AddToCart reads ItemHint/Quantity, Recommend
//	reads Preferences/Budget. Message and Suggestions carry conversational
//	text chosen at resolution time (the LLM's, or a templated one).
type Intent struct {
	Kind IntentKind

	// Filters applies to show_menu.
	Filters catalog.ItemFilters

	// Query applies to search_menu.
	Query string

	// ItemHint is the free-text item name for add/remove by name.
	ItemHint string

	// Quantity applies to cart mutations. Zero means default (1 for add,
	// whole line for remove).
	Quantity int

	// SpecialInstructions applies to add_to_cart.
	SpecialInstructions string

	// Preferences and Budget apply to get_recommendations.
	Preferences string
	Budget      float64

	// PriceSort, with a cap of 10, handles cheapest/most-expensive
	// queries on top of show_menu.
	PriceSort PriceSort

	// Limit caps the item list for price-sorted results. Zero means no
	// cap.
	Limit int

	// ExcludeTokens post-filters search results for negative constraints
	// like "no cheese".
	ExcludeTokens []string

	// Message is conversational text chosen at resolution time. Empty
	// means the executor templates one from the tool result.
	Message string

	// Suggestions are raw item-name proposals, pre-validation.
	Suggestions []string

	// Rule names the classifier rule that produced this intent, for
	// logging. Empty on the LLM path.
	Rule string
}

// PendingAction records a deferred cart mutation awaiting the user's pick
// in a clarification_needed response.
type PendingAction struct {
	Tool     tools.Tool `json:"tool"`
	Quantity int        `json:"quantity"`
	Query    string     `json:"query"`
}

// AIResponse is the uniform per-turn result shape, one per utterance.
//
// Description:
//
//	Tagged by Type; the populated optional fields follow the tag.
//	menu_display carries Items, cart_update carries Cart/Total, show_cart
//	adds Subtotal/Tax/ItemCount, clarification_needed carries candidate
//	Items plus PendingAction. Suggestions, when present, have already
//	passed the validator: every string is a canonical catalog name.
type AIResponse struct {
	Type         UIType             `json:"type"`
	Message      string             `json:"message"`
	Items        []catalog.MenuItem `json:"items,omitempty"`
	DisplayStyle string             `json:"displayStyle,omitempty"`
	Suggestions  []string           `json:"suggestions,omitempty"`

	Cart      []catalog.CartLine `json:"cart,omitempty"`
	Subtotal  string             `json:"subtotal,omitempty"`
	Tax       string             `json:"tax,omitempty"`
	Total     string             `json:"total,omitempty"`
	ItemCount int                `json:"itemCount,omitempty"`

	PendingAction *PendingAction `json:"pendingAction,omitempty"`

	// HasInvalidSuggestions reports that the validator dropped at least
	// one fabricated name from this response. Diagnostic only.
	HasInvalidSuggestions bool `json:"hasInvalidSuggestions,omitempty"`
}

// ConversationTurn is one (role, text) pair in a session's bounded history.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
