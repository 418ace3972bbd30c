// Package recipe defines the wire data model shared by the analysis backend
// and its clients.
//
// POST /api/analyze accepts an AnalyzeRequest and always answers with an
// AnalyzeResponse envelope. A successful envelope carries an AnalysisResult
// with the ingredients seen in the photo, suggested recipes, and a shopping
// list of complementary items.
package recipe

import "fmt"

// AnalyzePath is the fixed path of the analysis endpoint, relative to the
// backend base URL.
const AnalyzePath = "/api/analyze"

// Recipe is a single suggested dish. CookingTime and Difficulty are free
// text as returned by the model ("30 mins", "Easy").
type Recipe struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	IngredientsNeeded []string `json:"ingredients_needed"`
	Instructions      []string `json:"instructions"`
	CookingTime       string   `json:"cooking_time"`
	Difficulty        string   `json:"difficulty"`
}

// AnalysisResult is the outcome of analyzing one fridge photo. It fully
// replaces any previous result held by a client.
type AnalysisResult struct {
	IngredientsDetected     []string `json:"ingredients_detected"`
	Recipes                 []Recipe `json:"recipes"`
	ShoppingListSuggestions []string `json:"shopping_list_suggestions"`
}

// AnalyzeRequest is the request body for POST /api/analyze.
type AnalyzeRequest struct {
	Image string `json:"image"` // base64 data URL
}

// AnalyzeResponse is the envelope returned for every analysis request.
// Success implies Data is set; on failure Error should be set, but clients
// must not rely on either.
type AnalyzeResponse struct {
	Success bool            `json:"success"`
	Data    *AnalysisResult `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Summary returns the one-line description shown when an analysis succeeds.
func Summary(r *AnalysisResult) string {
	if r == nil {
		return "Found 0 ingredients and 0 delicious recipes"
	}
	return fmt.Sprintf("Found %d ingredients and %d delicious recipes",
		len(r.IngredientsDetected), len(r.Recipes))
}
