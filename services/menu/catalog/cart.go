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
	"fmt"
	"math"
	"sync"
	"time"
)

// DefaultTaxRate is the flat tax rate applied to cart subtotals.
const DefaultTaxRate = 0.08

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney renders a money amount as a fixed two-decimal string.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f", round2(v))
}

// cart is one session's order ledger. All access goes through mu, so a
// session's operations are serialized even when transport handlers run
// concurrently.
type cart struct {
	mu    sync.Mutex
	lines []CartLine
	now   func() time.Time
}

func newCart(now func() time.Time) *cart {
	if now == nil {
		now = time.Now
	}
	return &cart{now: now}
}

// add merges qty of item into the cart. Existing lines accumulate quantity;
// non-empty special instructions replace any previous note on the line.
func (c *cart) add(item MenuItem, qty int, instructions string) CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Quantity += qty
			if instructions != "" {
				c.lines[i].SpecialInstructions = instructions
			}
			return c.snapshotLocked()
		}
	}
	c.lines = append(c.lines, CartLine{
		ItemID:              item.ID,
		Item:                item,
		Quantity:            qty,
		SpecialInstructions: instructions,
		AddedAt:             c.now(),
	})
	return c.snapshotLocked()
}

// remove decrements a line by qty, or deletes it entirely when qty <= 0 or
// qty >= the line quantity. Lines never persist at quantity zero. Removing
// from an empty cart returns ErrEmptyCart; a miss against a non-empty cart
// returns ErrCartItemNotFound.
func (c *cart) remove(itemID string, qty int) (CartSnapshot, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return CartSnapshot{}, "", ErrEmptyCart
	}
	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		name := c.lines[i].Item.Name
		if qty <= 0 || qty >= c.lines[i].Quantity {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity -= qty
		}
		snap := c.snapshotLocked()
		return snap, name, nil
	}
	return CartSnapshot{}, "", fmt.Errorf("%w: %s", ErrCartItemNotFound, itemID)
}

// clear empties the cart and returns the number of lines removed.
func (c *cart) clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.lines)
	c.lines = nil
	return n
}

// contents returns the full ledger with subtotal, tax, and total.
//
// Tax is computed on the unrounded subtotal-times-rate product before the
// displayed tax figure is rounded, so total always equals
// round2(subtotal + subtotal*rate). The displayed tax line may differ from
// total-subtotal by one cent; that mirrors how the checkout totals were
// always presented.
func (c *cart) contents(taxRate float64) CartContents {
	c.mu.Lock()
	defer c.mu.Unlock()

	subtotal := 0.0
	count := 0
	for _, line := range c.lines {
		subtotal += line.Item.Price * float64(line.Quantity)
		count += line.Quantity
	}
	subtotal = round2(subtotal)
	taxRaw := subtotal * taxRate

	return CartContents{
		Lines:     c.copyLinesLocked(),
		Subtotal:  FormatMoney(subtotal),
		Tax:       FormatMoney(taxRaw),
		Total:     FormatMoney(subtotal + taxRaw),
		ItemCount: count,
	}
}

func (c *cart) snapshotLocked() CartSnapshot {
	subtotal := 0.0
	count := 0
	for _, line := range c.lines {
		subtotal += line.Item.Price * float64(line.Quantity)
		count += line.Quantity
	}
	return CartSnapshot{
		Lines:     c.copyLinesLocked(),
		Total:     FormatMoney(subtotal),
		ItemCount: count,
	}
}

func (c *cart) copyLinesLocked() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
