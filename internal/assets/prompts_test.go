package assets

import (
	"strings"
	"testing"
)

func TestRenderFridgeAnalysisPrompt(t *testing.T) {
	prompt := RenderFridgeAnalysisPrompt("")
	for _, want := range []string{
		`"ingredients_detected"`,
		`"recipes"`,
		`"shopping_list_suggestions"`,
		`"cooking_time"`,
		"2-3 recipes",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %s", want)
		}
	}
	if strings.Contains(prompt, "Photo context") {
		t.Error("empty metadata should not render a context block")
	}
}

func TestRenderFridgeAnalysisPromptWithMetadata(t *testing.T) {
	prompt := RenderFridgeAnalysisPrompt("Taken: 2026-01-02 18:30")
	if !strings.Contains(prompt, "Photo context") || !strings.Contains(prompt, "Taken: 2026-01-02 18:30") {
		t.Errorf("metadata context not rendered:\n%s", prompt)
	}
}
