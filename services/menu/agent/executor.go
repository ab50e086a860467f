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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
	"github.com/AleutianAI/AleutianMenu/services/menu/tools"
)

// maxClarificationCandidates bounds the item list shown when an add-by-name
// request is ambiguous.
const maxClarificationCandidates = 5

// exampleSuggestions are the canned prompts attached to error responses so
// the user always has somewhere to go next.
var exampleSuggestions = []string{
	"Show me the menu",
	"Browse appetizers",
	"See main courses",
}

// Executor runs resolved intents and raw model tool calls against the
// dispatcher and shapes each result into the uniform AIResponse.
type Executor struct {
	dispatch *tools.Dispatcher
	store    *catalog.Store
	log      *slog.Logger
}

func NewExecutor(dispatch *tools.Dispatcher, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{dispatch: dispatch, store: dispatch.Store(), log: log}
}

// Execute runs a typed Intent for a session. It always returns a
// well-formed response; tool failures become error-typed responses with
// example suggestions, never a propagated error.
func (e *Executor) Execute(ctx context.Context, session string, intent Intent) AIResponse {
	switch intent.Kind {
	case IntentShowMenu:
		return e.showMenu(session, intent)
	case IntentSearchMenu:
		return e.searchMenu(session, intent)
	case IntentAddToCart:
		return e.addByName(session, intent)
	case IntentRemoveFromCart:
		return e.removeFromCart(session, intent)
	case IntentRecommend:
		return e.recommend(intent)
	case IntentShowCart:
		return e.showCart(session)
	case IntentClearCart:
		return e.clearCart(session)
	case IntentConversation:
		msg := intent.Message
		if msg == "" {
			msg = "How can I help you with your order?"
		}
		return AIResponse{Type: UIConversation, Message: msg, Suggestions: intent.Suggestions}
	default:
		return errorResponse("I'm not sure what you're looking for. Try one of these:")
	}
}

func (e *Executor) showMenu(session string, intent Intent) AIResponse {
	items := e.store.GetItems(intent.Filters)

	if intent.PriceSort != PriceSortNone {
		sorted := make([]catalog.MenuItem, len(items))
		copy(sorted, items)
		sort.SliceStable(sorted, func(i, j int) bool {
			if intent.PriceSort == PriceSortDesc {
				return sorted[i].Price > sorted[j].Price
			}
			return sorted[i].Price < sorted[j].Price
		})
		if intent.Limit > 0 && len(sorted) > intent.Limit {
			sorted = sorted[:intent.Limit]
		}
		msg := "Here are our most affordable options:"
		if intent.PriceSort == PriceSortDesc {
			msg = "Here are our premium selections:"
		}
		return menuDisplay(msg, sorted)
	}

	if len(items) == 0 {
		return errorResponse("Nothing on the menu matches that. Try one of these:")
	}
	msg := "Here's our menu!"
	if intent.Filters.Category != "" {
		msg = fmt.Sprintf("Here are our %s:", strings.ToLower(intent.Filters.Category))
	}
	return menuDisplay(msg, items)
}

func (e *Executor) searchMenu(session string, intent Intent) AIResponse {
	items := e.store.Search(intent.Query)
	items = excludeByTokens(items, intent.ExcludeTokens)
	if len(items) == 0 {
		return errorResponse(fmt.Sprintf("I couldn't find anything matching %q. Try one of these:", intent.Query))
	}
	return menuDisplay(fmt.Sprintf("Here's what I found for %q:", intent.Query), items)
}

// addByName resolves a free-text item hint before mutating the cart.
// Exactly one match adds it, several matches ask the user to pick, zero
// matches is an error with example prompts. The cart is never mutated on
// a guessed id.
func (e *Executor) addByName(session string, intent Intent) AIResponse {
	hint := strings.TrimSpace(intent.ItemHint)
	if hint == "" {
		return errorResponse("What would you like to add? Try one of these:")
	}

	matches := e.store.Search(hint)
	if len(matches) == 0 {
		if singular := depluralize(hint); singular != hint {
			matches = e.store.Search(singular)
		}
	}
	switch {
	case len(matches) == 1:
		return e.addItem(session, matches[0].ID, intent.Quantity, intent.SpecialInstructions)

	case len(matches) > 1:
		candidates := matches
		if len(candidates) > maxClarificationCandidates {
			candidates = candidates[:maxClarificationCandidates]
		}
		qty := intent.Quantity
		if qty < 1 {
			qty = 1
		}
		return AIResponse{
			Type:    UIClarificationNeeded,
			Message: fmt.Sprintf("I found a few matches for %q. Which one would you like?", hint),
			Items:   candidates,
			PendingAction: &PendingAction{
				Tool:     tools.ToolCartAddItem,
				Quantity: qty,
				Query:    hint,
			},
		}

	default:
		return errorResponse(fmt.Sprintf("I couldn't find %q on our menu. Try one of these:", hint))
	}
}

func (e *Executor) addItem(session, itemID string, qty int, instructions string) AIResponse {
	if qty < 1 {
		qty = 1
	}
	snap, item, err := e.store.AddItem(session, itemID, qty, instructions)
	if err != nil {
		e.log.Warn("cart add failed", "itemId", itemID, "error", err)
		return errorResponse("I couldn't add that item. Try one of these:")
	}
	return AIResponse{
		Type:      UICartUpdate,
		Message:   fmt.Sprintf("Added %dx %s to cart", qty, item.Name),
		Cart:      snap.Lines,
		Total:     snap.Total,
		ItemCount: snap.ItemCount,
	}
}

// removeFromCart matches the hint against current cart line names. A hint
// that resolves nothing turns into show_cart asking which item to remove.
func (e *Executor) removeFromCart(session string, intent Intent) AIResponse {
	contents := e.store.CartContents(session)
	if len(contents.Lines) == 0 {
		return AIResponse{
			Type:        UIShowCart,
			Message:     "Your cart is already empty.",
			Cart:        contents.Lines,
			Subtotal:    contents.Subtotal,
			Tax:         contents.Tax,
			Total:       contents.Total,
			Suggestions: exampleSuggestions,
		}
	}

	hint := strings.ToLower(strings.TrimSpace(intent.ItemHint))
	var target *catalog.CartLine
	if hint != "" {
		for i := range contents.Lines {
			if strings.Contains(strings.ToLower(contents.Lines[i].Item.Name), hint) {
				target = &contents.Lines[i]
				break
			}
		}
	}
	if target == nil {
		return AIResponse{
			Type:      UIShowCart,
			Message:   "Which item would you like to remove?",
			Cart:      contents.Lines,
			Subtotal:  contents.Subtotal,
			Tax:       contents.Tax,
			Total:     contents.Total,
			ItemCount: contents.ItemCount,
		}
	}

	snap, name, err := e.store.RemoveItem(session, target.ItemID, intent.Quantity)
	if err != nil {
		e.log.Warn("cart remove failed", "itemId", target.ItemID, "error", err)
		return errorResponse("I couldn't remove that item. Try one of these:")
	}
	msg := fmt.Sprintf("Removed %s from cart", name)
	if intent.Quantity > 0 && intent.Quantity < target.Quantity {
		msg = fmt.Sprintf("Removed %dx %s from cart", intent.Quantity, name)
	}
	return AIResponse{
		Type:      UICartUpdate,
		Message:   msg,
		Cart:      snap.Lines,
		Total:     snap.Total,
		ItemCount: snap.ItemCount,
	}
}

func (e *Executor) recommend(intent Intent) AIResponse {
	prefs := intent.Preferences
	if strings.TrimSpace(prefs) == "" {
		prefs = "popular items"
	}
	items := e.store.Recommend(prefs, intent.Budget)
	items = excludeByTokens(items, intent.ExcludeTokens)
	if len(items) == 0 {
		return errorResponse("I don't have a good match for that. Try one of these:")
	}
	msg := "Here's what I'd recommend:"
	if intent.Budget > 0 {
		msg = fmt.Sprintf("Here's what I'd recommend under $%.2f:", intent.Budget)
	}
	return menuDisplay(msg, items)
}

func (e *Executor) showCart(session string) AIResponse {
	contents := e.store.CartContents(session)
	msg := "Here's your cart:"
	if len(contents.Lines) == 0 {
		msg = "Your cart is empty. Ready to order something?"
	}
	return AIResponse{
		Type:      UIShowCart,
		Message:   msg,
		Cart:      contents.Lines,
		Subtotal:  contents.Subtotal,
		Tax:       contents.Tax,
		Total:     contents.Total,
		ItemCount: contents.ItemCount,
	}
}

func (e *Executor) clearCart(session string) AIResponse {
	removed := e.store.ClearCart(session)
	snap := e.store.CartContents(session)
	return AIResponse{
		Type:      UICartUpdate,
		Message:   fmt.Sprintf("Cart cleared (%d items removed)", removed),
		Cart:      []catalog.CartLine{},
		Total:     snap.Total,
		ItemCount: 0,
	}
}

// ExecuteToolCall runs a model-proposed tool call for a session.
//
// Description:
//
//	The tool name and parameters come from untrusted model output, so the
//	name is validated against the closed tool enum and the arguments pass
//	through the dispatcher's schema validation. cart_add_item with an
//	itemName but no itemId is rewritten into the add-by-name flow; the
//	model is never allowed to invent an item id.
func (e *Executor) ExecuteToolCall(ctx context.Context, session, toolName string, params map[string]any, message string) AIResponse {
	tool := tools.Tool(toolName)
	if !tool.Valid() {
		e.log.Warn("model proposed unknown tool", "tool", toolName)
		return errorResponse(fmt.Sprintf("Unknown tool: %s. Try one of these:", toolName))
	}

	if params == nil {
		params = map[string]any{}
	}

	if tool == tools.ToolCartAddItem {
		if _, hasID := params["itemId"]; !hasID {
			if name, ok := params["itemName"].(string); ok && name != "" {
				return e.addByName(session, Intent{
					Kind:                IntentAddToCart,
					ItemHint:            name,
					Quantity:            intFromParam(params["quantity"]),
					SpecialInstructions: stringFromParam(params["specialInstructions"]),
				})
			}
			return errorResponse("What would you like to add? Try one of these:")
		}
		delete(params, "itemName")
	}

	args, err := json.Marshal(params)
	if err != nil {
		return errorResponse("I couldn't process that request. Try one of these:")
	}

	result, err := e.dispatch.Dispatch(ctx, session, tool, args)
	if err != nil {
		e.log.Warn("tool call failed", "tool", tool, "error", err)
		return errorResponse("That didn't work. Try one of these:")
	}
	return e.mapToolResult(tool, result, message)
}

// mapToolResult shapes a dispatcher result into the response type its tool
// class dictates: menu tools to menu_display, cart mutations to
// cart_update, cart contents to show_cart.
func (e *Executor) mapToolResult(tool tools.Tool, result any, message string) AIResponse {
	switch r := result.(type) {
	case tools.CategoriesResult:
		if message == "" {
			message = "Here's our menu!"
		}
		return menuDisplay(message, e.store.Items())
	case tools.ItemsResult:
		return menuDisplay(orMessage(message, "Here's what we have:"), r.Items)
	case tools.SearchResult:
		if len(r.Items) == 0 {
			return errorResponse(fmt.Sprintf("I couldn't find anything matching %q. Try one of these:", r.Query))
		}
		return menuDisplay(orMessage(message, fmt.Sprintf("Here's what I found for %q:", r.Query)), r.Items)
	case tools.RecommendationsResult:
		if len(r.Recommendations) == 0 {
			return errorResponse("I don't have a good match for that. Try one of these:")
		}
		return menuDisplay(orMessage(message, "Here's what I'd recommend:"), r.Recommendations)
	case tools.CartMutationResult:
		return AIResponse{
			Type:      UICartUpdate,
			Message:   orMessage(message, r.Message),
			Cart:      r.Cart,
			Total:     r.Total,
			ItemCount: r.ItemCount,
		}
	case catalog.CartContents:
		return AIResponse{
			Type:      UIShowCart,
			Message:   orMessage(message, "Here's your cart:"),
			Cart:      r.Lines,
			Subtotal:  r.Subtotal,
			Tax:       r.Tax,
			Total:     r.Total,
			ItemCount: r.ItemCount,
		}
	default:
		e.log.Error("unmapped tool result type", "tool", tool, "type", fmt.Sprintf("%T", result))
		return errorResponse("That didn't work. Try one of these:")
	}
}

func menuDisplay(message string, items []catalog.MenuItem) AIResponse {
	return AIResponse{
		Type:         UIMenuDisplay,
		Message:      message,
		Items:        items,
		DisplayStyle: "grid",
	}
}

func errorResponse(message string) AIResponse {
	return AIResponse{
		Type:        UIError,
		Message:     message,
		Suggestions: exampleSuggestions,
	}
}

// excludeByTokens drops items whose name or description mentions any
// excluded ingredient token.
func excludeByTokens(items []catalog.MenuItem, tokens []string) []catalog.MenuItem {
	if len(tokens) == 0 {
		return items
	}
	kept := make([]catalog.MenuItem, 0, len(items))
	for _, item := range items {
		text := strings.ToLower(item.Name + " " + item.Description)
		excluded := false
		for _, tok := range tokens {
			if strings.Contains(text, strings.ToLower(tok)) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, item)
		}
	}
	return kept
}

// depluralize strips a trailing "s" from each word of a hint so spoken
// plurals ("2 burgers") still find their catalog entry. Words ending in
// "ss" are left alone.
func depluralize(hint string) string {
	words := strings.Fields(hint)
	for i, w := range words {
		if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
			words[i] = strings.TrimSuffix(w, "s")
		}
	}
	return strings.Join(words, " ")
}

func orMessage(preferred, fallback string) string {
	if strings.TrimSpace(preferred) != "" {
		return preferred
	}
	return fallback
}

func intFromParam(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		var out int
		fmt.Sscanf(n, "%d", &out)
		return out
	default:
		return 0
	}
}

func stringFromParam(v any) string {
	s, _ := v.(string)
	return s
}
