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
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultCatalog returns the built-in demo menu: five categories, two dozen
// items. Callers receive a fresh slice and may not assume a particular
// capacity, but ordering is stable and meaningful (it is the menu display
// order and the tiebreak order for search and recommendations).
func DefaultCatalog() []MenuItem {
	return []MenuItem{
		// === Appetizers ===
		{
			ID: "app001", Name: "Spring Rolls", Category: CategoryAppetizers, Price: 6.99,
			Description: "Crispy vegetable rolls served with sweet chili dipping sauce",
			Ingredients: []string{"rice paper", "cabbage", "carrot", "glass noodles"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan},
			SpicyLevel:  0, Calories: 320, PrepTime: 10, Available: true,
		},
		{
			ID: "app002", Name: "Spicy Chicken Wings", Category: CategoryAppetizers, Price: 9.99,
			Description: "Crispy wings tossed in our signature hot sauce",
			Ingredients: []string{"chicken wings", "hot sauce", "butter", "celery"},
			Dietary:     []string{DietaryGlutenFree},
			SpicyLevel:  3, Calories: 540, PrepTime: 15, Available: true,
		},
		{
			ID: "app003", Name: "Garlic Bread", Category: CategoryAppetizers, Price: 5.49,
			Description: "Toasted baguette with roasted garlic butter and parsley",
			Ingredients: []string{"baguette", "garlic", "butter", "parsley"},
			Dietary:     []string{DietaryVegetarian},
			SpicyLevel:  0, Calories: 380, PrepTime: 8, Available: true,
		},
		{
			ID: "app004", Name: "Tomato Bruschetta", Category: CategoryAppetizers, Price: 7.49,
			Description: "Grilled bread topped with fresh tomato, basil, and olive oil",
			Ingredients: []string{"bread", "tomato", "basil", "olive oil", "garlic"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan},
			SpicyLevel:  0, Calories: 280, PrepTime: 8, Available: true,
		},
		// === Mains ===
		{
			ID: "main001", Name: "Margherita Pizza", Category: CategoryMains, Price: 13.99,
			Description: "Wood-fired pizza with tomato, fresh mozzarella, and basil",
			Ingredients: []string{"pizza dough", "tomato sauce", "mozzarella", "basil"},
			Dietary:     []string{DietaryVegetarian},
			SpicyLevel:  0, Calories: 850, PrepTime: 18, Available: true,
		},
		{
			ID: "main002", Name: "Chicken Tikka Masala", Category: CategoryMains, Price: 16.49,
			Description: "Tandoori-spiced chicken simmered in a creamy tomato curry, with basmati rice",
			Ingredients: []string{"chicken", "yogurt", "tomato", "cream", "garam masala", "basmati rice"},
			Dietary:     []string{DietaryGlutenFree},
			SpicyLevel:  2, Calories: 720, PrepTime: 22, Available: true,
		},
		{
			ID: "main003", Name: "Vegetable Stir Fry", Category: CategoryMains, Price: 12.99,
			Description: "Healthy wok-tossed seasonal vegetables in a light ginger soy glaze",
			Ingredients: []string{"broccoli", "bell pepper", "snap peas", "carrot", "ginger", "soy sauce"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan},
			SpicyLevel:  1, Calories: 340, PrepTime: 14, Available: true,
		},
		{
			ID: "main004", Name: "Beef Burger", Category: CategoryMains, Price: 15.99,
			Description: "Half-pound grass-fed patty on a brioche bun with lettuce, tomato, and onion",
			Ingredients: []string{"beef patty", "brioche bun", "lettuce", "tomato", "onion", "house sauce"},
			Dietary:     []string{},
			SpicyLevel:  0, Calories: 920, PrepTime: 16, Available: true,
		},
		{
			ID: "main005", Name: "Caesar Salad with Chicken", Category: CategoryMains, Price: 14.49,
			Description: "Crisp romaine, grilled chicken, shaved parmesan, and house caesar dressing",
			Ingredients: []string{"romaine", "grilled chicken", "parmesan", "caesar dressing", "croutons"},
			Dietary:     []string{},
			SpicyLevel:  0, Calories: 480, PrepTime: 10, Available: true,
		},
		{
			ID: "main006", Name: "Shrimp Scampi", Category: CategoryMains, Price: 18.99,
			Description: "Sauteed shrimp over linguine in garlic white wine butter",
			Ingredients: []string{"shrimp", "linguine", "garlic", "white wine", "butter", "lemon"},
			Dietary:     []string{},
			SpicyLevel:  0, Calories: 610, PrepTime: 20, Available: true,
		},
		{
			ID: "main007", Name: "Quinoa Power Bowl", Category: CategoryMains, Price: 13.49,
			Description: "Healthy grain bowl with roasted sweet potato, kale, avocado, and tahini",
			Ingredients: []string{"quinoa", "sweet potato", "kale", "avocado", "chickpeas", "tahini"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree},
			SpicyLevel:  0, Calories: 380, PrepTime: 12, Available: true,
		},
		{
			ID: "main008", Name: "Five Alarm Chili", Category: CategoryMains, Price: 14.99,
			Description: "Slow-cooked beef and bean chili with habanero, topped with scallions",
			Ingredients: []string{"ground beef", "kidney beans", "habanero", "tomato", "scallions"},
			Dietary:     []string{DietaryGlutenFree},
			SpicyLevel:  4, Calories: 680, PrepTime: 15, Available: true,
		},
		// === Sides ===
		{
			ID: "side001", Name: "French Fries", Category: CategorySides, Price: 4.99,
			Description: "Hand-cut fries with sea salt",
			Ingredients: []string{"potato", "sea salt", "canola oil"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree},
			SpicyLevel:  0, Calories: 450, PrepTime: 8, Available: true,
		},
		{
			ID: "side002", Name: "Garden Side Salad", Category: CategorySides, Price: 5.49,
			Description: "Light, healthy mix of greens, cucumber, and cherry tomato with vinaigrette",
			Ingredients: []string{"mixed greens", "cucumber", "cherry tomato", "vinaigrette"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree},
			SpicyLevel:  0, Calories: 150, PrepTime: 5, Available: true,
		},
		{
			ID: "side003", Name: "Steamed Jasmine Rice", Category: CategorySides, Price: 3.49,
			Description: "Fluffy jasmine rice",
			Ingredients: []string{"jasmine rice"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree},
			SpicyLevel:  0, Calories: 200, PrepTime: 5, Available: true,
		},
		{
			ID: "side004", Name: "Roasted Seasonal Vegetables", Category: CategorySides, Price: 6.49,
			Description: "Healthy oven-roasted vegetables with herbs and olive oil",
			Ingredients: []string{"zucchini", "carrot", "red onion", "olive oil", "rosemary"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree},
			SpicyLevel:  0, Calories: 180, PrepTime: 12, Available: true,
		},
		// === Desserts ===
		{
			ID: "des001", Name: "Chocolate Lava Cake", Category: CategoryDesserts, Price: 8.49,
			Description: "Warm chocolate cake with a molten center and vanilla ice cream",
			Ingredients: []string{"dark chocolate", "butter", "eggs", "flour", "vanilla ice cream"},
			Dietary:     []string{DietaryVegetarian},
			SpicyLevel:  0, Calories: 650, PrepTime: 14, Available: true,
		},
		{
			ID: "des002", Name: "Fresh Fruit Tart", Category: CategoryDesserts, Price: 7.99,
			Description: "Buttery tart shell with vanilla custard and seasonal fruit",
			Ingredients: []string{"tart shell", "vanilla custard", "strawberry", "kiwi", "blueberry"},
			Dietary:     []string{DietaryVegetarian},
			SpicyLevel:  0, Calories: 280, PrepTime: 6, Available: true,
		},
		{
			ID: "des003", Name: "Key Lime Pie", Category: CategoryDesserts, Price: 7.49,
			Description: "Tangy lime custard in a graham cracker crust with whipped cream",
			Ingredients: []string{"key lime", "condensed milk", "graham cracker", "whipped cream"},
			Dietary:     []string{DietaryVegetarian},
			SpicyLevel:  0, Calories: 350, PrepTime: 6, Available: true,
		},
		{
			ID: "des004", Name: "New York Cheesecake", Category: CategoryDesserts, Price: 8.99,
			Description: "Classic baked cheesecake with a berry compote",
			Ingredients: []string{"cream cheese", "eggs", "graham cracker", "berry compote"},
			Dietary:     []string{DietaryVegetarian},
			SpicyLevel:  0, Calories: 580, PrepTime: 6, Available: true,
		},
		// === Beverages ===
		{
			ID: "bev001", Name: "Fresh Lemonade", Category: CategoryBeverages, Price: 3.99,
			Description: "House-squeezed lemonade with mint",
			Ingredients: []string{"lemon", "cane sugar", "mint", "water"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree},
			SpicyLevel:  0, Calories: 120, PrepTime: 3, Available: true,
		},
		{
			ID: "bev002", Name: "Iced Tea", Category: CategoryBeverages, Price: 2.99,
			Description: "Cold-brewed black tea over ice",
			Ingredients: []string{"black tea", "water", "ice"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree},
			SpicyLevel:  0, Calories: 90, PrepTime: 2, Available: true,
		},
		{
			ID: "bev003", Name: "Mango Smoothie", Category: CategoryBeverages, Price: 5.49,
			Description: "Healthy blended mango, banana, and yogurt",
			Ingredients: []string{"mango", "banana", "yogurt", "honey"},
			Dietary:     []string{DietaryVegetarian, DietaryGlutenFree},
			SpicyLevel:  0, Calories: 210, PrepTime: 4, Available: true,
		},
		{
			ID: "bev004", Name: "Sparkling Water", Category: CategoryBeverages, Price: 2.49,
			Description: "Chilled sparkling mineral water with lime",
			Ingredients: []string{"sparkling water", "lime"},
			Dietary:     []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree},
			SpicyLevel:  0, Calories: 0, PrepTime: 1, Available: true,
		},
	}
}

// LoadCatalogFile reads a YAML catalog override from path.
//
// Description:
//
//	The file is a YAML list of menu items using the yaml tags on MenuItem.
//	Every item is validated the same way the built-in catalog is: known
//	category, known dietary tags, positive price, spice within range,
//	unique ids. The first violation aborts the load.
//
// Outputs:
//   - []MenuItem: validated items in file order
//   - error: I/O, decode, or validation failure
func LoadCatalogFile(path string) ([]MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var items []MenuItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	if err := ValidateItems(items); err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return items, nil
}

// ValidateItems checks structural invariants across a catalog slice.
func ValidateItems(items []MenuItem) error {
	if len(items) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("item %d: missing id", i)
		}
		if seen[item.ID] {
			return fmt.Errorf("item %q: duplicate id", item.ID)
		}
		seen[item.ID] = true
		if item.Name == "" {
			return fmt.Errorf("item %q: missing name", item.ID)
		}
		if !ValidCategory(item.Category) {
			return fmt.Errorf("item %q: unknown category %q", item.ID, item.Category)
		}
		if item.Price <= 0 {
			return fmt.Errorf("item %q: price must be positive, got %.2f", item.ID, item.Price)
		}
		if item.SpicyLevel < 0 || item.SpicyLevel > MaxSpicyLevel {
			return fmt.Errorf("item %q: spicy level %d out of range 0-%d", item.ID, item.SpicyLevel, MaxSpicyLevel)
		}
		for _, tag := range item.Dietary {
			valid := false
			for _, known := range DietaryTags {
				if tag == known {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("item %q: unknown dietary tag %q", item.ID, tag)
			}
		}
	}
	return nil
}
