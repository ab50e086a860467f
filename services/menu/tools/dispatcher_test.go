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
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	store, err := catalog.NewStore(catalog.StoreConfig{})
	require.NoError(t, err)
	return NewDispatcher(store, nil)
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := newTestDispatcher(t)
	_, err := d.Dispatch(context.Background(), "s1", Tool("menu_delete_everything"), nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestValid(t *testing.T) {
	for _, tool := range All {
		assert.True(t, tool.Valid(), string(tool))
	}
	assert.False(t, Tool("cart_checkout").Valid())
	assert.False(t, Tool("").Valid())
}

func TestSpecs_CoverAllTools(t *testing.T) {
	specs := Specs()
	require.Len(t, specs, len(All))
	for i, spec := range specs {
		assert.Equal(t, All[i], spec.Name)
		assert.NotEmpty(t, spec.Description)
		assert.Equal(t, "object", spec.InputSchema["type"])
	}
}

func TestDispatch_GetCategories(t *testing.T) {
	d := newTestDispatcher(t)
	res, err := d.Dispatch(context.Background(), "s1", ToolMenuGetCategories, nil)
	require.NoError(t, err)

	cats := res.(CategoriesResult)
	assert.Equal(t, 5, cats.Count)
	assert.Equal(t, "Appetizers", cats.Categories[0].Name)
}

func TestDispatch_GetItems(t *testing.T) {
	d := newTestDispatcher(t)

	t.Run("no filters", func(t *testing.T) {
		res, err := d.Dispatch(context.Background(), "s1", ToolMenuGetItems, json.RawMessage(`{}`))
		require.NoError(t, err)
		items := res.(ItemsResult)
		assert.Equal(t, len(d.Store().Items()), items.Count)
	})

	t.Run("filtered", func(t *testing.T) {
		res, err := d.Dispatch(context.Background(), "s1", ToolMenuGetItems,
			json.RawMessage(`{"category":"Mains","maxPrice":14}`))
		require.NoError(t, err)
		items := res.(ItemsResult)
		require.NotZero(t, items.Count)
		for _, item := range items.Items {
			assert.Equal(t, catalog.CategoryMains, item.Category)
			assert.LessOrEqual(t, item.Price, 14.0)
		}
	})

	t.Run("bad category", func(t *testing.T) {
		_, err := d.Dispatch(context.Background(), "s1", ToolMenuGetItems,
			json.RawMessage(`{"category":"Brunch"}`))
		assert.Error(t, err)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := d.Dispatch(context.Background(), "s1", ToolMenuGetItems,
			json.RawMessage(`{"categry":"Mains"}`))
		assert.Error(t, err)
	})
}

func TestDispatch_Search(t *testing.T) {
	d := newTestDispatcher(t)

	res, err := d.Dispatch(context.Background(), "s1", ToolMenuSearch,
		json.RawMessage(`{"query":"chicken"}`))
	require.NoError(t, err)
	found := res.(SearchResult)
	assert.Equal(t, 3, found.Count)
	assert.Equal(t, "chicken", found.Query)

	_, err = d.Dispatch(context.Background(), "s1", ToolMenuSearch, json.RawMessage(`{}`))
	assert.Error(t, err, "query is required")
}

func TestDispatch_Recommendations(t *testing.T) {
	d := newTestDispatcher(t)
	res, err := d.Dispatch(context.Background(), "s1", ToolMenuGetRecommendations,
		json.RawMessage(`{"preferences":"spicy","budget":20}`))
	require.NoError(t, err)

	recs := res.(RecommendationsResult)
	require.NotZero(t, recs.Count)
	assert.LessOrEqual(t, recs.Count, catalog.MaxRecommendations)
	for _, item := range recs.Recommendations {
		assert.GreaterOrEqual(t, item.SpicyLevel, 2)
		assert.LessOrEqual(t, item.Price, 20.0)
	}
}

func TestDispatch_CartLifecycle(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	res, err := d.Dispatch(ctx, "s1", ToolCartAddItem,
		json.RawMessage(`{"itemId":"main004","quantity":2}`))
	require.NoError(t, err)
	added := res.(CartMutationResult)
	assert.Equal(t, "Added 2x Beef Burger to cart", added.Message)
	assert.Equal(t, "31.98", added.Total)
	assert.Equal(t, 2, added.ItemCount)

	res, err = d.Dispatch(ctx, "s1", ToolCartGetContents, nil)
	require.NoError(t, err)
	contents := res.(catalog.CartContents)
	assert.Equal(t, "31.98", contents.Subtotal)
	assert.Equal(t, "2.56", contents.Tax)
	assert.Equal(t, "34.54", contents.Total)

	res, err = d.Dispatch(ctx, "s1", ToolCartRemoveItem,
		json.RawMessage(`{"itemId":"main004","quantity":1}`))
	require.NoError(t, err)
	removed := res.(CartMutationResult)
	assert.Equal(t, 1, removed.ItemCount)

	res, err = d.Dispatch(ctx, "s1", ToolCartClear, nil)
	require.NoError(t, err)
	cleared := res.(CartMutationResult)
	assert.Empty(t, cleared.Cart)
	assert.Equal(t, "0.00", cleared.Total)
}

func TestDispatch_CartDefaultQuantity(t *testing.T) {
	d := newTestDispatcher(t)
	res, err := d.Dispatch(context.Background(), "s1", ToolCartAddItem,
		json.RawMessage(`{"itemId":"bev002"}`))
	require.NoError(t, err)
	added := res.(CartMutationResult)
	assert.Equal(t, 1, added.ItemCount)
	assert.Equal(t, "Added 1x Iced Tea to cart", added.Message)
}

func TestDispatch_CartErrors(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	_, err := d.Dispatch(ctx, "s1", ToolCartAddItem, json.RawMessage(`{"itemId":"nope01"}`))
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	_, err = d.Dispatch(ctx, "s1", ToolCartRemoveItem, json.RawMessage(`{"itemId":"bev002"}`))
	assert.ErrorIs(t, err, catalog.ErrEmptyCart)

	_, err = d.Dispatch(ctx, "s1", ToolCartAddItem, json.RawMessage(`{"itemId":"bev001"}`))
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, "s1", ToolCartRemoveItem, json.RawMessage(`{"itemId":"bev002"}`))
	assert.ErrorIs(t, err, catalog.ErrCartItemNotFound)

	_, err = d.Dispatch(ctx, "s1", ToolCartAddItem, json.RawMessage(`{}`))
	assert.Error(t, err, "itemId is required")
}

func TestDispatch_SessionsAreIsolated(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	_, err := d.Dispatch(ctx, "alice", ToolCartAddItem, json.RawMessage(`{"itemId":"main004"}`))
	require.NoError(t, err)

	res, err := d.Dispatch(ctx, "bob", ToolCartGetContents, nil)
	require.NoError(t, err)
	assert.Zero(t, res.(catalog.CartContents).ItemCount)
}

func TestTool_Mutating(t *testing.T) {
	assert.True(t, ToolCartAddItem.Mutating())
	assert.True(t, ToolCartRemoveItem.Mutating())
	assert.True(t, ToolCartClear.Mutating())
	assert.False(t, ToolMenuSearch.Mutating())
	assert.False(t, ToolCartGetContents.Mutating())
}
