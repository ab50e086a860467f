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
	"math/rand"
	"strings"
	"sync"
	"time"
)

// MaxRecommendations caps the result size of Recommend.
const MaxRecommendations = 8

// StoreConfig configures a Store.
type StoreConfig struct {
	// Items is the catalog. Nil means DefaultCatalog().
	Items []MenuItem

	// TaxRate overrides DefaultTaxRate when non-zero.
	TaxRate float64

	// RecommendSeed seeds the shuffle used when Recommend has no
	// preference signal. Zero disables shuffling entirely and the
	// fallback follows catalog order, which keeps results reproducible.
	RecommendSeed int64

	// Now overrides the clock used for cart line timestamps. Nil means
	// time.Now. Tests use this for stable AddedAt values.
	Now func() time.Time
}

// Store is the in-memory catalog plus all session carts.
//
// Description:
//
//	The catalog slice is immutable after construction and read without
//	locking. The session-to-cart map is guarded by mu; each cart then
//	serializes its own mutations, so two sessions never contend with
//	each other.
//
// Thread Safety: safe for concurrent use.
type Store struct {
	items   []MenuItem
	byID    map[string]int
	taxRate float64
	seed    int64
	now     func() time.Time

	mu    sync.RWMutex
	carts map[string]*cart
}

// NewStore validates the catalog and builds a Store.
func NewStore(cfg StoreConfig) (*Store, error) {
	items := cfg.Items
	if items == nil {
		items = DefaultCatalog()
	}
	if err := ValidateItems(items); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	taxRate := cfg.TaxRate
	if taxRate == 0 {
		taxRate = DefaultTaxRate
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	byID := make(map[string]int, len(items))
	for i, item := range items {
		byID[item.ID] = i
	}
	return &Store{
		items:   items,
		byID:    byID,
		taxRate: taxRate,
		seed:    cfg.RecommendSeed,
		now:     now,
		carts:   make(map[string]*cart),
	}, nil
}

// TaxRate returns the configured tax rate.
func (s *Store) TaxRate() float64 { return s.taxRate }

// Items returns a copy of the full catalog in display order.
func (s *Store) Items() []MenuItem {
	out := make([]MenuItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemByID looks up a single item.
func (s *Store) ItemByID(id string) (MenuItem, bool) {
	i, ok := s.byID[id]
	if !ok {
		return MenuItem{}, false
	}
	return s.items[i], true
}

// GetItems returns every item matching the filter conjunction, in catalog
// order. An empty filter returns the whole catalog.
func (s *Store) GetItems(f ItemFilters) []MenuItem {
	out := make([]MenuItem, 0, len(s.items))
	for _, item := range s.items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// CategoryInfo is one row of the category overview.
type CategoryInfo struct {
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
}

// CategoryList returns all categories with item counts, in display order.
// Categories with no items still appear with a zero count.
func (s *Store) CategoryList() []CategoryInfo {
	counts := make(map[Category]int, len(Categories))
	for _, item := range s.items {
		counts[item.Category]++
	}
	out := make([]CategoryInfo, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, CategoryInfo{Name: string(c), ItemCount: counts[c]})
	}
	return out
}

// Search scans name, description, ingredients, category, and dietary tags
// for a case-insensitive substring match. Results keep catalog order, which
// doubles as the tiebreak order everywhere downstream.
func (s *Store) Search(query string) []MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []MenuItem
	for _, item := range s.items {
		if itemMatchesQuery(item, q) {
			out = append(out, item)
		}
	}
	return out
}

func itemMatchesQuery(item MenuItem, q string) bool {
	if strings.Contains(strings.ToLower(item.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description), q) {
		return true
	}
	if strings.Contains(strings.ToLower(string(item.Category)), q) {
		return true
	}
	for _, ing := range item.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	for _, tag := range item.Dietary {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Recommend picks up to MaxRecommendations available items for a free-text
// preference string, optionally constrained by a price budget.
//
// Description:
//
//	Known preference signals select by attribute: spice level, dietary
//	tags, calorie bands, or dessert category. With no recognized signal
//	the fallback is deterministic: catalog order, or a seeded shuffle when
//	the store was built with a non-zero RecommendSeed. The shuffle reseeds
//	per call so identical inputs always produce identical output.
func (s *Store) Recommend(preferences string, budget float64) []MenuItem {
	p := strings.ToLower(preferences)

	var pick func(MenuItem) bool
	switch {
	case strings.Contains(p, "spicy") || strings.Contains(p, "hot"):
		pick = func(m MenuItem) bool { return m.SpicyLevel >= 2 }
	case strings.Contains(p, "vegan"):
		pick = func(m MenuItem) bool { return m.HasDietary(DietaryVegan) }
	case strings.Contains(p, "vegetarian"):
		pick = func(m MenuItem) bool { return m.HasDietary(DietaryVegetarian) }
	case strings.Contains(p, "gluten"):
		pick = func(m MenuItem) bool { return m.HasDietary(DietaryGlutenFree) }
	case strings.Contains(p, "healthy") || strings.Contains(p, "light"):
		pick = func(m MenuItem) bool {
			return (m.Calories > 0 && m.Calories < 400) || m.HasDietary(DietaryVegetarian)
		}
	case strings.Contains(p, "comfort") || strings.Contains(p, "hearty") || strings.Contains(p, "filling"):
		pick = func(m MenuItem) bool { return m.Calories >= 600 }
	case strings.Contains(p, "sweet") || strings.Contains(p, "dessert"):
		pick = func(m MenuItem) bool { return m.Category == CategoryDesserts }
	}

	candidates := make([]MenuItem, 0, len(s.items))
	for _, item := range s.items {
		if !item.Available {
			continue
		}
		if budget > 0 && item.Price > budget {
			continue
		}
		if pick != nil && !pick(item) {
			continue
		}
		candidates = append(candidates, item)
	}

	if pick == nil && s.seed != 0 {
		rng := rand.New(rand.NewSource(s.seed))
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}
	if len(candidates) > MaxRecommendations {
		candidates = candidates[:MaxRecommendations]
	}
	return candidates
}

// === Cart operations ===

// DefaultSession is the cart key used by single-user transports such as
// the stdio loop.
const DefaultSession = "default"

func (s *Store) cartFor(session string) *cart {
	if session == "" {
		session = DefaultSession
	}
	s.mu.RLock()
	c, ok := s.carts[session]
	s.mu.RUnlock()
	if ok {
		return c
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.carts[session]; ok {
		return c
	}
	c = newCart(s.now)
	s.carts[session] = c
	return c
}

// AddItem adds qty of itemID to the session cart.
//
// Inputs:
//   - session: cart key; empty means DefaultSession
//   - itemID: catalog item id
//   - qty: quantity to add; values < 1 are treated as 1
//   - instructions: optional per-line note; replaces any existing note
//
// Outputs:
//   - CartSnapshot: cart state after the add
//   - MenuItem: the item that was added
//   - error: ErrItemNotFound or ErrItemUnavailable
func (s *Store) AddItem(session, itemID string, qty int, instructions string) (CartSnapshot, MenuItem, error) {
	item, ok := s.ItemByID(itemID)
	if !ok {
		return CartSnapshot{}, MenuItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if !item.Available {
		return CartSnapshot{}, MenuItem{}, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
	}
	if qty < 1 {
		qty = 1
	}
	return s.cartFor(session).add(item, qty, instructions), item, nil
}

// RemoveItem removes qty of itemID from the session cart. qty <= 0 removes
// the whole line. Returns the removed item's display name.
func (s *Store) RemoveItem(session, itemID string, qty int) (CartSnapshot, string, error) {
	return s.cartFor(session).remove(itemID, qty)
}

// ClearCart empties the session cart and returns the number of lines removed.
func (s *Store) ClearCart(session string) int {
	return s.cartFor(session).clear()
}

// CartContents returns the session cart ledger with subtotal, tax, and total.
func (s *Store) CartContents(session string) CartContents {
	return s.cartFor(session).contents(s.taxRate)
}
