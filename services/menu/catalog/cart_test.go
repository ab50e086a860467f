// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddMergesLines(t *testing.T) {
	s := newTestStore(t)

	snap, item, err := s.AddItem("sess1", "main004", 1, "")
	require.NoError(t, err)
	assert.Equal(t, "Beef Burger", item.Name)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 1, snap.ItemCount)

	snap, _, err = s.AddItem("sess1", "main004", 2, "no onion")
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 3, snap.Lines[0].Quantity)
	assert.Equal(t, "no onion", snap.Lines[0].SpecialInstructions)
	assert.Equal(t, 3, snap.ItemCount)
}

func TestCart_AddUnknownItem(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.AddItem("sess1", "main999", 1, "")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCart_AddUnavailableItem(t *testing.T) {
	items := DefaultCatalog()
	items[0].Available = false
	s, err := NewStore(StoreConfig{Items: items})
	require.NoError(t, err)

	_, _, err = s.AddItem("sess1", items[0].ID, 1, "")
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestCart_AddClampsQuantity(t *testing.T) {
	s := newTestStore(t)
	snap, _, err := s.AddItem("sess1", "bev002", 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Lines[0].Quantity)
}

func TestCart_Remove(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.AddItem("sess1", "main004", 3, "")
	require.NoError(t, err)

	t.Run("partial removal decrements", func(t *testing.T) {
		snap, name, err := s.RemoveItem("sess1", "main004", 1)
		require.NoError(t, err)
		assert.Equal(t, "Beef Burger", name)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, 2, snap.Lines[0].Quantity)
	})

	t.Run("not in cart", func(t *testing.T) {
		_, _, err := s.RemoveItem("sess1", "bev001", 1)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		snap, _, err := s.RemoveItem("sess1", "main004", 0)
		require.NoError(t, err)
		assert.Empty(t, snap.Lines)
		assert.Equal(t, "0.00", snap.Total)
	})

	t.Run("empty cart", func(t *testing.T) {
		_, _, err := s.RemoveItem("sess1", "main004", 1)
		assert.ErrorIs(t, err, ErrEmptyCart)
	})
}

func TestCart_RemoveMoreThanHeld(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.AddItem("sess1", "bev002", 2, "")
	require.NoError(t, err)

	snap, _, err := s.RemoveItem("sess1", "bev002", 5)
	require.NoError(t, err)
	assert.Empty(t, snap.Lines)
}

func TestCart_Clear(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.AddItem("sess1", "main004", 1, "")
	require.NoError(t, err)
	_, _, err = s.AddItem("sess1", "bev002", 1, "")
	require.NoError(t, err)

	assert.Equal(t, 2, s.ClearCart("sess1"))
	assert.Equal(t, 0, s.ClearCart("sess1"))
	assert.Empty(t, s.CartContents("sess1").Lines)
}

func TestCart_Totals(t *testing.T) {
	s := newTestStore(t)
	// 2 x 15.99 = 31.98; tax at 8% = 2.5584 -> 2.56; total 34.54.
	_, _, err := s.AddItem("sess1", "main004", 2, "")
	require.NoError(t, err)

	contents := s.CartContents("sess1")
	assert.Equal(t, "31.98", contents.Subtotal)
	assert.Equal(t, "2.56", contents.Tax)
	assert.Equal(t, "34.54", contents.Total)
	assert.Equal(t, 2, contents.ItemCount)
}

func TestCart_TotalsEmpty(t *testing.T) {
	s := newTestStore(t)
	contents := s.CartContents("sess1")
	assert.Equal(t, "0.00", contents.Subtotal)
	assert.Equal(t, "0.00", contents.Tax)
	assert.Equal(t, "0.00", contents.Total)
	assert.Equal(t, 0, contents.ItemCount)
	assert.Empty(t, contents.Lines)
}

func TestCart_SessionIsolation(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.AddItem("alice", "main004", 1, "")
	require.NoError(t, err)
	_, _, err = s.AddItem("bob", "bev002", 2, "")
	require.NoError(t, err)

	alice := s.CartContents("alice")
	bob := s.CartContents("bob")
	require.Len(t, alice.Lines, 1)
	require.Len(t, bob.Lines, 1)
	assert.Equal(t, "main004", alice.Lines[0].ItemID)
	assert.Equal(t, "bev002", bob.Lines[0].ItemID)
}

func TestCart_EmptySessionUsesDefault(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.AddItem("", "bev002", 1, "")
	require.NoError(t, err)
	assert.Len(t, s.CartContents(DefaultSession).Lines, 1)
}

func TestCart_ConcurrentAdds(t *testing.T) {
	s := newTestStore(t)
	const workers = 16

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.AddItem("sess1", "bev002", 1, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	contents := s.CartContents("sess1")
	require.Len(t, contents.Lines, 1)
	assert.Equal(t, workers, contents.Lines[0].Quantity)
}
