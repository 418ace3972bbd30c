package recipe

import (
	"strings"

	"github.com/arbovm/levenshtein"
)

// nearDuplicateDistance is the maximum edit distance at which two ingredient
// names are treated as the same item ("tomato" / "tomatoe").
const nearDuplicateDistance = 1

// minFuzzyLength keeps short names out of fuzzy matching; "egg" and "fig"
// should never collapse into each other.
const minFuzzyLength = 5

// Normalize cleans up a model reply in place so clients always receive
// non-nil slices without blank or near-duplicate entries.
//
// Shopping suggestions that match a detected ingredient are dropped: the
// list is meant for items that are not already in the fridge.
func Normalize(r *AnalysisResult) *AnalysisResult {
	if r == nil {
		return nil
	}

	r.IngredientsDetected = dedupe(cleanList(r.IngredientsDetected))

	var kept []string
	for _, item := range dedupe(cleanList(r.ShoppingListSuggestions)) {
		if !containsSimilar(r.IngredientsDetected, item) {
			kept = append(kept, item)
		}
	}
	if kept == nil {
		kept = []string{}
	}
	r.ShoppingListSuggestions = kept

	recipes := make([]Recipe, 0, len(r.Recipes))
	for _, rc := range r.Recipes {
		rc.Title = strings.TrimSpace(rc.Title)
		if rc.Title == "" {
			continue
		}
		rc.Description = strings.TrimSpace(rc.Description)
		rc.CookingTime = strings.TrimSpace(rc.CookingTime)
		rc.Difficulty = strings.TrimSpace(rc.Difficulty)
		rc.IngredientsNeeded = cleanList(rc.IngredientsNeeded)
		rc.Instructions = cleanList(rc.Instructions)
		recipes = append(recipes, rc)
	}
	r.Recipes = recipes

	return r
}

// cleanList trims every entry and drops blanks. Order is preserved.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// dedupe removes entries similar to an earlier entry, keeping the first spelling.
func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if !containsSimilar(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func containsSimilar(items []string, candidate string) bool {
	for _, s := range items {
		if similar(s, candidate) {
			return true
		}
	}
	return false
}

// similar reports whether two names refer to the same item. Comparison is
// case-insensitive; fuzzy matching only applies to longer names.
func similar(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return true
	}
	if len(a) < minFuzzyLength || len(b) < minFuzzyLength {
		return false
	}
	return levenshtein.Distance(a, b) <= nearDuplicateDistance
}
