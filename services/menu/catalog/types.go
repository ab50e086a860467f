// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog owns the ground-truth menu data and the per-session cart
// ledgers. It is the single authority on which items exist: every other
// component (tool dispatcher, LLM pipeline, suggestion validator) resolves
// item names and ids against this package.
//
// The catalog itself is immutable for the process lifetime and safe to share.
// Carts are mutable, keyed by session id, and serialized per session.
package catalog

import "time"

// Category is one of the fixed menu categories.
//
// The set is closed: items outside it are rejected at load time.
type Category string

const (
	CategoryAppetizers Category = "Appetizers"
	CategoryMains      Category = "Mains"
	CategorySides      Category = "Sides"
	CategoryDesserts   Category = "Desserts"
	CategoryBeverages  Category = "Beverages"
)

// Categories lists all valid categories in menu display order.
var Categories = []Category{
	CategoryAppetizers,
	CategoryMains,
	CategorySides,
	CategoryDesserts,
	CategoryBeverages,
}

// ValidCategory reports whether c is a member of the fixed category set.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Dietary tag vocabulary. Tags outside this set are rejected at load time.
const (
	DietaryVegetarian = "vegetarian"
	DietaryVegan      = "vegan"
	DietaryGlutenFree = "gluten-free"
)

// DietaryTags lists the fixed dietary tag vocabulary.
var DietaryTags = []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree}

// MaxSpicyLevel is the upper bound of the 0-4 spice scale.
const MaxSpicyLevel = 4

// MenuItem is a single catalog entry.
//
// Description:
//
//	MenuItems are immutable for the session and owned exclusively by the
//	Store. Wire and YAML tags match the shapes the original transports
//	expose, so items serialize directly into tool results.
type MenuItem struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    Category `json:"category" yaml:"category"`
	Price       float64  `json:"price" yaml:"price"`
	Description string   `json:"description" yaml:"description"`
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
	Dietary     []string `json:"dietary" yaml:"dietary"`
	SpicyLevel  int      `json:"spicyLevel" yaml:"spicy_level"`
	Calories    int      `json:"calories" yaml:"calories"`
	PrepTime    int      `json:"prepTime" yaml:"prep_time"` // minutes
	Available   bool     `json:"available" yaml:"available"`
}

// HasDietary reports whether the item carries the given dietary tag.
func (m MenuItem) HasDietary(tag string) bool {
	for _, d := range m.Dietary {
		if d == tag {
			return true
		}
	}
	return false
}

// ItemFilters is a conjunction of optional catalog predicates.
//
// Description:
//
//	A zero-value ItemFilters matches every item. Dietary is a superset
//	requirement: every requested tag must be present on the item. Pointer
//	fields distinguish "absent" from a zero value (e.g., spicyLevel 0).
type ItemFilters struct {
	Category   string   `json:"category,omitempty"`
	Dietary    []string `json:"dietary,omitempty"`
	MaxPrice   *float64 `json:"maxPrice,omitempty"`
	SpicyLevel *int     `json:"spicyLevel,omitempty"`
	Available  *bool    `json:"available,omitempty"`
}

// Empty reports whether no predicate is set.
func (f ItemFilters) Empty() bool {
	return f.Category == "" && len(f.Dietary) == 0 &&
		f.MaxPrice == nil && f.SpicyLevel == nil && f.Available == nil
}

// Matches reports whether the item satisfies every set predicate.
func (f ItemFilters) Matches(item MenuItem) bool {
	if f.Category != "" && string(item.Category) != f.Category {
		return false
	}
	for _, tag := range f.Dietary {
		if !item.HasDietary(tag) {
			return false
		}
	}
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	if f.SpicyLevel != nil && item.SpicyLevel > *f.SpicyLevel {
		return false
	}
	if f.Available != nil && item.Available != *f.Available {
		return false
	}
	return true
}

// CartLine is one entry in a session cart.
//
// Invariant: at most one CartLine exists per item id, and Quantity > 0.
// A line whose quantity would reach zero is deleted, never persisted.
type CartLine struct {
	ItemID              string    `json:"itemId"`
	Item                MenuItem  `json:"item"`
	Quantity            int       `json:"quantity"`
	SpecialInstructions string    `json:"specialInstructions,omitempty"`
	AddedAt             time.Time `json:"addedAt"`
}

// CartSnapshot is the cart state returned by mutating operations.
type CartSnapshot struct {
	Lines     []CartLine `json:"cart"`
	Total     string     `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// CartContents is the full cart ledger with tax breakdown, returned by
// Contents. Money values are fixed-point strings rounded half-up to two
// decimal places.
type CartContents struct {
	Lines     []CartLine `json:"cart"`
	Subtotal  string     `json:"subtotal"`
	Tax       string     `json:"tax"`
	Total     string     `json:"total"`
	ItemCount int        `json:"itemCount"`
}
