// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tools exposes the menu and cart operations as a closed, named
// tool set and dispatches calls to the catalog store. The tool names form
// the contract shared by the HTTP transport, the stdio transport, and the
// LLM pipeline: a name outside this set is rejected, never guessed at.
package tools

import "errors"

// Tool identifies one operation in the closed tool set.
type Tool string

const (
	ToolMenuGetCategories      Tool = "menu_get_categories"
	ToolMenuGetItems           Tool = "menu_get_items"
	ToolMenuSearch             Tool = "menu_search"
	ToolMenuGetRecommendations Tool = "menu_get_recommendations"
	ToolCartAddItem            Tool = "cart_add_item"
	ToolCartRemoveItem         Tool = "cart_remove_item"
	ToolCartGetContents        Tool = "cart_get_contents"
	ToolCartClear              Tool = "cart_clear"
)

// All lists every tool in declaration order.
var All = []Tool{
	ToolMenuGetCategories,
	ToolMenuGetItems,
	ToolMenuSearch,
	ToolMenuGetRecommendations,
	ToolCartAddItem,
	ToolCartRemoveItem,
	ToolCartGetContents,
	ToolCartClear,
}

// ErrUnknownTool is returned for any name outside the closed set.
var ErrUnknownTool = errors.New("unknown tool")

// Valid reports whether t is a member of the closed tool set.
func (t Tool) Valid() bool {
	switch t {
	case ToolMenuGetCategories, ToolMenuGetItems, ToolMenuSearch,
		ToolMenuGetRecommendations, ToolCartAddItem, ToolCartRemoveItem,
		ToolCartGetContents, ToolCartClear:
		return true
	}
	return false
}

// Mutating reports whether the tool changes cart state.
func (t Tool) Mutating() bool {
	switch t {
	case ToolCartAddItem, ToolCartRemoveItem, ToolCartClear:
		return true
	}
	return false
}

// Spec describes one tool for discovery endpoints and LLM prompts.
// InputSchema is a JSON Schema fragment in the shape MCP tool listings use.
type Spec struct {
	Name        Tool           `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Specs returns the discovery listing for the full tool set, in declaration
// order. The result is freshly built per call; callers may mutate it.
func Specs() []Spec {
	return []Spec{
		{
			Name:        ToolMenuGetCategories,
			Description: "List all menu categories with item counts",
			InputSchema: objectSchema(map[string]any{}, nil),
		},
		{
			Name:        ToolMenuGetItems,
			Description: "Get menu items, optionally filtered by category, dietary tags, max price, or spice level",
			InputSchema: objectSchema(map[string]any{
				"category":   prop("string", "Menu category (Appetizers, Mains, Sides, Desserts, Beverages)"),
				"dietary":    arrayProp("string", "Required dietary tags (vegetarian, vegan, gluten-free)"),
				"maxPrice":   prop("number", "Maximum price in dollars"),
				"spicyLevel": prop("integer", "Maximum spice level, 0-4"),
				"available":  prop("boolean", "Filter by availability"),
			}, nil),
		},
		{
			Name:        ToolMenuSearch,
			Description: "Search menu items by name, description, ingredient, category, or dietary tag",
			InputSchema: objectSchema(map[string]any{
				"query": prop("string", "Search text"),
			}, []string{"query"}),
		},
		{
			Name:        ToolMenuGetRecommendations,
			Description: "Get up to 8 recommended items for a free-text preference, optionally within a budget",
			InputSchema: objectSchema(map[string]any{
				"preferences": prop("string", "Free-text preferences, e.g. 'something spicy' or 'healthy'"),
				"budget":      prop("number", "Maximum price per item in dollars"),
			}, nil),
		},
		{
			Name:        ToolCartAddItem,
			Description: "Add a menu item to the cart by item id",
			InputSchema: objectSchema(map[string]any{
				"itemId":              prop("string", "Catalog item id"),
				"quantity":            prop("integer", "Quantity to add, default 1"),
				"specialInstructions": prop("string", "Optional preparation note"),
			}, []string{"itemId"}),
		},
		{
			Name:        ToolCartRemoveItem,
			Description: "Remove a menu item from the cart; quantity 0 removes the whole line",
			InputSchema: objectSchema(map[string]any{
				"itemId":   prop("string", "Catalog item id"),
				"quantity": prop("integer", "Quantity to remove, 0 for all"),
			}, []string{"itemId"}),
		},
		{
			Name:        ToolCartGetContents,
			Description: "Get the current cart with subtotal, tax, and total",
			InputSchema: objectSchema(map[string]any{}, nil),
		},
		{
			Name:        ToolCartClear,
			Description: "Remove every item from the cart",
			InputSchema: objectSchema(map[string]any{}, nil),
		},
	}
}

func objectSchema(props map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func arrayProp(itemType, desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": itemType},
		"description": desc,
	}
}
