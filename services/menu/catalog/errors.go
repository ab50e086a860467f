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

import "errors"

// Sentinel errors for catalog and cart lookups. Callers branch on these
// with errors.Is to decide between user-facing "not found" replies and
// internal failures.
var (
	// ErrItemNotFound means the item id does not exist in the catalog.
	ErrItemNotFound = errors.New("menu item not found")

	// ErrItemUnavailable means the item exists but is not currently orderable.
	ErrItemUnavailable = errors.New("menu item unavailable")

	// ErrCartItemNotFound means the item exists in the catalog but not in
	// the session's cart.
	ErrCartItemNotFound = errors.New("item not in cart")

	// ErrEmptyCart means a cart operation requires at least one line.
	ErrEmptyCart = errors.New("cart is empty")
)
