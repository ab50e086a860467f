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
	"regexp"
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
)

// Classifier is the deterministic fallback intent resolver. It produces
// the same Intent taxonomy as the LLM path so everything downstream is
// agnostic to which resolver ran.
//
// The rules live in an ordered table; the first matching rule wins and
// that fixed order is the tie-break policy. Keep new rules in the table,
// not in ad hoc branches, so the priority stays visible and testable.
type Classifier struct {
	rules []classifierRule
}

type classifierRule struct {
	name  string
	match func(msg string) bool
	build func(msg string) Intent
}

var (
	quantityRe = regexp.MustCompile(`\b(\d+)\b`)
	noPhraseRe = regexp.MustCompile(`(?:no|without)\s+(\w+)`)
	// qtyDishRe treats a quantity followed by a dish noun as an order
	// even without an action verb ("2 burgers please").
	qtyDishRe = regexp.MustCompile(`\d+.*(?:burger|pizza|chicken|salad|pasta|taco|sandwich|wings)`)
)

// priceSortCap bounds price-superlative listings.
const priceSortCap = 10

func NewClassifier() *Classifier {
	c := &Classifier{}
	c.rules = []classifierRule{
		{"price_superlative", matchesAny("cheapest", "most affordable", "least expensive", "expensive", "premium", "priciest"), c.priceIntent},
		{"popularity", matchesAny("best", "most popular", "popular"), func(string) Intent {
			return Intent{Kind: IntentRecommend, Preferences: "popular items"}
		}},
		{"health", matchesAny("healthy", "light", "low calorie", "low-calorie"), c.healthIntent},
		{"flavor", matchesAny("spicy", "very hot", "hot", "mild"), c.flavorIntent},
		{"question", c.matchesQuestion, c.questionIntent},
		{"show_cart", func(msg string) bool {
			return matchesAny("show", "display", "see", "view", "what's in")(msg) && strings.Contains(msg, "cart")
		}, func(string) Intent {
			return Intent{Kind: IntentShowCart}
		}},
		{"show_menu", func(msg string) bool {
			return matchesAny("show", "display", "see", "view", "browse")(msg) &&
				matchesAny("menu", "items", "food", "options", "appetizer", "main", "side", "dessert", "beverage", "drink")(msg)
		}, c.showMenuIntent},
		{"add_to_cart", func(msg string) bool {
			return matchesAny("add ", "order ", "i'll have", "i will have", "get me")(msg) ||
				qtyDishRe.MatchString(msg)
		}, c.addIntent},
		{"clear_cart", func(msg string) bool {
			return strings.Contains(msg, "cart") && matchesAny("clear", "empty", "start over")(msg)
		}, func(string) Intent {
			return Intent{Kind: IntentClearCart}
		}},
		{"remove_from_cart", matchesAny("remove", "delete", "cancel", "take off", "take out"), c.removeIntent},
		{"recommend", matchesAny("recommend", "suggest", "what should"), c.recommendIntent},
		{"search", matchesAny("search", "find", "looking for"), c.searchIntent},
	}
	return c
}

// Classify resolves an utterance to an Intent. It never fails; the final
// rule treats the whole utterance as a search query.
func (c *Classifier) Classify(utterance string) Intent {
	msg := strings.ToLower(strings.TrimSpace(utterance))
	for _, rule := range c.rules {
		if rule.match(msg) {
			intent := rule.build(msg)
			intent.Rule = rule.name
			return intent
		}
	}
	return Intent{Kind: IntentSearchMenu, Query: msg, Rule: "default_search"}
}

func matchesAny(keywords ...string) func(string) bool {
	return func(msg string) bool {
		for _, kw := range keywords {
			if strings.Contains(msg, kw) {
				return true
			}
		}
		return false
	}
}

func (c *Classifier) priceIntent(msg string) Intent {
	sort := PriceSortAsc
	if matchesAny("expensive", "premium", "priciest")(msg) {
		sort = PriceSortDesc
	}
	return Intent{Kind: IntentShowMenu, PriceSort: sort, Limit: priceSortCap}
}

// healthIntent searches for healthy items and records "no X"/"without X"
// phrases as exclusion tokens. The executor post-filters the hits whose
// name or description still mentions an excluded ingredient.
func (c *Classifier) healthIntent(msg string) Intent {
	intent := Intent{Kind: IntentSearchMenu, Query: "healthy"}
	for _, m := range noPhraseRe.FindAllStringSubmatch(msg, -1) {
		intent.ExcludeTokens = append(intent.ExcludeTokens, m[1])
	}
	return intent
}

func (c *Classifier) flavorIntent(msg string) Intent {
	level := 2
	switch {
	case strings.Contains(msg, "very hot"):
		level = 4
	case strings.Contains(msg, "mild"):
		level = 1
	case strings.Contains(msg, "not spicy"), strings.Contains(msg, "no spice"):
		level = 0
	}
	return Intent{Kind: IntentShowMenu, Filters: catalog.ItemFilters{SpicyLevel: &level}}
}

// questionIntent re-routes "what/which/how..." utterances through the
// keyword rules above it, defaulting to a plain search.
func (c *Classifier) matchesQuestion(msg string) bool {
	for _, w := range []string{"what", "which", "how", "where", "why", "when", "who", "can i", "do you"} {
		if strings.HasPrefix(msg, w) {
			return true
		}
	}
	return false
}

func (c *Classifier) questionIntent(msg string) Intent {
	for _, rule := range c.rules {
		if rule.name == "question" {
			break
		}
		if rule.match(msg) {
			return rule.build(msg)
		}
	}
	if strings.Contains(msg, "cart") {
		return Intent{Kind: IntentShowCart}
	}
	if matchesAny("recommend", "suggest", "should")(msg) {
		return c.recommendIntent(msg)
	}
	if matchesAny("menu", "have", "serve", "options")(msg) {
		return Intent{Kind: IntentShowMenu}
	}
	return Intent{Kind: IntentSearchMenu, Query: stripActionWords(msg)}
}

func (c *Classifier) showMenuIntent(msg string) Intent {
	return Intent{Kind: IntentShowMenu, Filters: extractFilters(msg)}
}

func (c *Classifier) addIntent(msg string) Intent {
	qty := 1
	if m := quantityRe.FindStringSubmatch(msg); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			qty = n
		}
	}
	hint := stripActionWords(msg)
	return Intent{Kind: IntentAddToCart, ItemHint: hint, Quantity: qty}
}

func (c *Classifier) removeIntent(msg string) Intent {
	qty := 0
	if m := quantityRe.FindStringSubmatch(msg); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			qty = n
		}
	}
	hint := stripActionWords(msg)
	return Intent{Kind: IntentRemoveFromCart, ItemHint: hint, Quantity: qty}
}

func (c *Classifier) recommendIntent(msg string) Intent {
	intent := Intent{Kind: IntentRecommend}
	if m := underPriceRe.FindStringSubmatch(msg); m != nil {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil {
			intent.Budget = price
		}
		msg = underPriceRe.ReplaceAllString(msg, "")
	}
	prefs := stripActionWords(msg)
	if len(prefs) < 3 {
		prefs = "popular items"
	}
	intent.Preferences = prefs
	return intent
}

func (c *Classifier) searchIntent(msg string) Intent {
	return Intent{Kind: IntentSearchMenu, Query: stripActionWords(msg)}
}

// extractFilters pulls category, dietary, and "under $N" predicates out
// of a show-menu style utterance.
func extractFilters(msg string) catalog.ItemFilters {
	var f catalog.ItemFilters
	for keyword, category := range categoryKeywords {
		if strings.Contains(msg, keyword) {
			f.Category = string(category)
			break
		}
	}
	for _, tag := range []string{"vegetarian", "vegan", "gluten-free"} {
		if strings.Contains(msg, tag) {
			f.Dietary = append(f.Dietary, tag)
		}
	}
	if strings.Contains(msg, "gluten free") && !containsString(f.Dietary, "gluten-free") {
		f.Dietary = append(f.Dietary, "gluten-free")
	}
	if m := underPriceRe.FindStringSubmatch(msg); m != nil {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil {
			f.MaxPrice = &price
		}
	}
	return f
}

// categoryKeywords maps singular and plural forms to catalog categories.
// Iteration order does not matter; a menu utterance names at most one.
var categoryKeywords = map[string]catalog.Category{
	"appetizer": catalog.CategoryAppetizers,
	"starter":   catalog.CategoryAppetizers,
	"main":      catalog.CategoryMains,
	"entree":    catalog.CategoryMains,
	"side":      catalog.CategorySides,
	"dessert":   catalog.CategoryDesserts,
	"sweet":     catalog.CategoryDesserts,
	"beverage":  catalog.CategoryBeverages,
	"drink":     catalog.CategoryBeverages,
}

// actionPhrases are multi-word fillers removed before single-word
// stripping. Longer phrases first so their fragments never survive.
var actionPhrases = []string{
	"search for", "looking for", "show me", "get me", "i'll have",
	"i will have", "i want", "i'd like", "what should i eat",
	"what should i", "to my cart", "from my cart", "to cart", "from cart",
	"my cart",
}

// actionStopWords are single words dropped wherever they appear, matched
// on whole words only.
var actionStopWords = map[string]struct{}{
	"search": {}, "find": {}, "show": {}, "add": {}, "order": {},
	"remove": {}, "delete": {}, "cancel": {}, "recommend": {},
	"suggest": {}, "something": {}, "please": {}, "the": {}, "a": {},
	"an": {}, "me": {}, "my": {}, "cart": {}, "some": {}, "of": {},
	"for": {}, "i": {}, "want": {}, "like": {}, "have": {}, "get": {},
	"x": {},
}

// stripActionWords drops quantities, filler phrases, and action verbs,
// leaving the part of the utterance that names food.
func stripActionWords(msg string) string {
	msg = quantityRe.ReplaceAllString(msg, " ")
	for _, phrase := range actionPhrases {
		msg = strings.ReplaceAll(msg, phrase, " ")
	}
	var kept []string
	for _, word := range strings.Fields(msg) {
		if _, stop := actionStopWords[strings.Trim(word, ".,!?")]; stop {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
