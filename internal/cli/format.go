package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fpang/fridge-chef/internal/recipe"
)

// FormatDurationShort formats a duration as M:SS or H:MM:SS.
func FormatDurationShort(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// PrintResult writes a human-readable report of an analysis.
func PrintResult(w io.Writer, r *recipe.AnalysisResult) {
	if r == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "INGREDIENTS DETECTED (%d)\n", len(r.IngredientsDetected))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, ing := range r.IngredientsDetected {
		fmt.Fprintf(w, "  • %s\n", ing)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "RECIPES (%d)\n", len(r.Recipes))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for i, rc := range r.Recipes {
		fmt.Fprintf(w, "%d. %s", i+1, rc.Title)
		if meta := recipeMeta(rc); meta != "" {
			fmt.Fprintf(w, "  (%s)", meta)
		}
		fmt.Fprintln(w)
		if rc.Description != "" {
			fmt.Fprintf(w, "   %s\n", rc.Description)
		}
		if len(rc.IngredientsNeeded) > 0 {
			fmt.Fprintf(w, "   Needs: %s\n", strings.Join(rc.IngredientsNeeded, ", "))
		}
		for j, step := range rc.Instructions {
			fmt.Fprintf(w, "   %d) %s\n", j+1, step)
		}
		fmt.Fprintln(w)
	}

	if len(r.ShoppingListSuggestions) > 0 {
		fmt.Fprintln(w, "SHOPPING LIST")
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for _, item := range r.ShoppingListSuggestions {
			fmt.Fprintf(w, "  [ ] %s\n", item)
		}
	}
}

func recipeMeta(rc recipe.Recipe) string {
	var parts []string
	if rc.CookingTime != "" {
		parts = append(parts, rc.CookingTime)
	}
	if rc.Difficulty != "" {
		parts = append(parts, rc.Difficulty)
	}
	return strings.Join(parts, ", ")
}
