// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
)

// Argument payloads, decoded with DisallowUnknownFields and checked with
// validator tags before any tool runs. Field names match the wire contract
// the transports and the LLM prompt both use.
type (
	// GetItemsArgs filters the catalog listing. All fields optional.
	GetItemsArgs struct {
		Category   string   `json:"category" validate:"omitempty,oneof=Appetizers Mains Sides Desserts Beverages"`
		Dietary    []string `json:"dietary" validate:"omitempty,dive,oneof=vegetarian vegan gluten-free"`
		MaxPrice   *float64 `json:"maxPrice" validate:"omitempty,gt=0"`
		SpicyLevel *int     `json:"spicyLevel" validate:"omitempty,min=0,max=4"`
		Available  *bool    `json:"available"`
	}

	// SearchArgs carries the free-text search query.
	SearchArgs struct {
		Query string `json:"query" validate:"required"`
	}

	// RecommendArgs carries preference text and an optional per-item budget.
	RecommendArgs struct {
		Preferences string  `json:"preferences"`
		Budget      float64 `json:"budget" validate:"omitempty,gte=0"`
	}

	// AddItemArgs adds quantity of an item to the cart.
	AddItemArgs struct {
		ItemID              string `json:"itemId" validate:"required"`
		Quantity            int    `json:"quantity" validate:"omitempty,min=1,max=99"`
		SpecialInstructions string `json:"specialInstructions" validate:"omitempty,max=500"`
	}

	// RemoveItemArgs removes quantity of an item; zero removes the line.
	RemoveItemArgs struct {
		ItemID   string `json:"itemId" validate:"required"`
		Quantity int    `json:"quantity" validate:"omitempty,min=0,max=99"`
	}
)

// Dispatcher routes validated tool calls to the catalog store.
//
// Description:
//
//	Dispatch is an exhaustive switch over the closed tool set. Adding a
//	tool means adding a constant, a spec, and a case here; there is no
//	reflective or registry-based path a typo could slip through.
//
// Thread Safety: safe for concurrent use. The store serializes cart
// mutations per session.
type Dispatcher struct {
	store    *catalog.Store
	validate *validator.Validate
	log      *slog.Logger
}

// NewDispatcher builds a Dispatcher over the given store.
func NewDispatcher(store *catalog.Store, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Store exposes the underlying catalog store for components that need
// direct reads (context builder, suggestion validation).
func (d *Dispatcher) Store() *catalog.Store { return d.store }

// Dispatch executes one tool call for a session.
//
// Inputs:
//   - ctx: carries cancellation and the active trace span
//   - session: cart key; empty means the default session
//   - tool: tool name, validated against the closed set
//   - args: raw JSON arguments; nil is treated as an empty object
//
// Outputs:
//   - any: JSON-marshalable result in the tool's wire shape
//   - error: ErrUnknownTool, validation failure, or a catalog sentinel
func (d *Dispatcher) Dispatch(ctx context.Context, session string, tool Tool, args json.RawMessage) (any, error) {
	ctx, span := otel.Tracer(toolTracerName).Start(ctx, "tools.Dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("tool.name", string(tool)),
		attribute.String("session.id", session),
	)

	start := time.Now()
	result, err := d.dispatch(ctx, session, tool, args)
	observeToolCall(tool, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		d.log.WarnContext(ctx, "tool call failed",
			"tool", tool,
			"session", session,
			"error", err)
		return nil, err
	}
	d.log.DebugContext(ctx, "tool call complete",
		"tool", tool,
		"session", session,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, session string, tool Tool, args json.RawMessage) (any, error) {
	switch tool {
	case ToolMenuGetCategories:
		return d.getCategories(), nil

	case ToolMenuGetItems:
		var a GetItemsArgs
		if err := d.decodeArgs(tool, args, &a); err != nil {
			return nil, err
		}
		return d.getItems(a), nil

	case ToolMenuSearch:
		var a SearchArgs
		if err := d.decodeArgs(tool, args, &a); err != nil {
			return nil, err
		}
		return d.search(a), nil

	case ToolMenuGetRecommendations:
		var a RecommendArgs
		if err := d.decodeArgs(tool, args, &a); err != nil {
			return nil, err
		}
		return d.recommend(a), nil

	case ToolCartAddItem:
		var a AddItemArgs
		if err := d.decodeArgs(tool, args, &a); err != nil {
			return nil, err
		}
		return d.addItem(session, a)

	case ToolCartRemoveItem:
		var a RemoveItemArgs
		if err := d.decodeArgs(tool, args, &a); err != nil {
			return nil, err
		}
		return d.removeItem(session, a)

	case ToolCartGetContents:
		return d.store.CartContents(session), nil

	case ToolCartClear:
		return d.clearCart(session), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
}

// decodeArgs strictly decodes args into out and runs validator tags.
// Unknown fields are an error so the LLM cannot smuggle arguments past
// validation under a misspelled name.
func (d *Dispatcher) decodeArgs(tool Tool, args json.RawMessage, out any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s: invalid arguments: %w", tool, err)
	}
	if err := d.validate.Struct(out); err != nil {
		return fmt.Errorf("%s: invalid arguments: %w", tool, err)
	}
	return nil
}

// === Tool implementations ===

// CategoriesResult is the menu_get_categories wire shape.
type CategoriesResult struct {
	Categories []catalog.CategoryInfo `json:"categories"`
	Count      int                    `json:"count"`
}

func (d *Dispatcher) getCategories() CategoriesResult {
	list := d.store.CategoryList()
	return CategoriesResult{Categories: list, Count: len(list)}
}

// ItemsResult is the menu_get_items wire shape.
type ItemsResult struct {
	Items   []catalog.MenuItem `json:"items"`
	Count   int                `json:"count"`
	Filters GetItemsArgs       `json:"filters"`
}

func (d *Dispatcher) getItems(a GetItemsArgs) ItemsResult {
	items := d.store.GetItems(catalog.ItemFilters{
		Category:   a.Category,
		Dietary:    a.Dietary,
		MaxPrice:   a.MaxPrice,
		SpicyLevel: a.SpicyLevel,
		Available:  a.Available,
	})
	return ItemsResult{Items: items, Count: len(items), Filters: a}
}

// SearchResult is the menu_search wire shape.
type SearchResult struct {
	Items []catalog.MenuItem `json:"items"`
	Count int                `json:"count"`
	Query string             `json:"query"`
}

func (d *Dispatcher) search(a SearchArgs) SearchResult {
	items := d.store.Search(a.Query)
	return SearchResult{Items: items, Count: len(items), Query: a.Query}
}

// RecommendationsResult is the menu_get_recommendations wire shape.
type RecommendationsResult struct {
	Recommendations []catalog.MenuItem `json:"recommendations"`
	Count           int                `json:"count"`
	Preferences     string             `json:"preferences,omitempty"`
	Budget          float64            `json:"budget,omitempty"`
}

func (d *Dispatcher) recommend(a RecommendArgs) RecommendationsResult {
	items := d.store.Recommend(a.Preferences, a.Budget)
	return RecommendationsResult{
		Recommendations: items,
		Count:           len(items),
		Preferences:     a.Preferences,
		Budget:          a.Budget,
	}
}

// CartMutationResult is the wire shape for cart_add_item, cart_remove_item,
// and cart_clear. Total is the cart subtotal; tax appears only on
// cart_get_contents, matching how the checkout always displayed it.
type CartMutationResult struct {
	Message   string             `json:"message"`
	Cart      []catalog.CartLine `json:"cart"`
	Total     string             `json:"total"`
	ItemCount int                `json:"itemCount"`
}

func (d *Dispatcher) addItem(session string, a AddItemArgs) (CartMutationResult, error) {
	qty := a.Quantity
	if qty == 0 {
		qty = 1
	}
	snap, item, err := d.store.AddItem(session, a.ItemID, qty, a.SpecialInstructions)
	if err != nil {
		return CartMutationResult{}, err
	}
	return CartMutationResult{
		Message:   fmt.Sprintf("Added %dx %s to cart", qty, item.Name),
		Cart:      snap.Lines,
		Total:     snap.Total,
		ItemCount: snap.ItemCount,
	}, nil
}

func (d *Dispatcher) removeItem(session string, a RemoveItemArgs) (CartMutationResult, error) {
	snap, name, err := d.store.RemoveItem(session, a.ItemID, a.Quantity)
	if err != nil {
		return CartMutationResult{}, err
	}
	msg := fmt.Sprintf("Removed %s from cart", name)
	if a.Quantity > 0 {
		msg = fmt.Sprintf("Removed %dx %s from cart", a.Quantity, name)
	}
	return CartMutationResult{
		Message:   msg,
		Cart:      snap.Lines,
		Total:     snap.Total,
		ItemCount: snap.ItemCount,
	}, nil
}

func (d *Dispatcher) clearCart(session string) CartMutationResult {
	removed := d.store.ClearCart(session)
	return CartMutationResult{
		Message:   fmt.Sprintf("Cart cleared (%d items removed)", removed),
		Cart:      []catalog.CartLine{},
		Total:     catalog.FormatMoney(0),
		ItemCount: 0,
	}
}
