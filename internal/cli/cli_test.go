package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fpang/fridge-chef/internal/recipe"
)

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{12 * time.Second, "0:12"},
		{75 * time.Second, "1:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDurationShort(tt.d); got != tt.want {
			t.Errorf("FormatDurationShort(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, &recipe.AnalysisResult{
		IngredientsDetected: []string{"eggs", "tomatoes"},
		Recipes: []recipe.Recipe{{
			Title:             "Shakshuka",
			Description:       "Eggs poached in tomato sauce",
			IngredientsNeeded: []string{"eggs", "tomatoes", "cumin"},
			Instructions:      []string{"Simmer tomatoes", "Crack in eggs"},
			CookingTime:       "25 mins",
			Difficulty:        "Easy",
		}},
		ShoppingListSuggestions: []string{"cumin"},
	})

	out := buf.String()
	for _, want := range []string{
		"INGREDIENTS DETECTED (2)",
		"• tomatoes",
		"1. Shakshuka  (25 mins, Easy)",
		"Needs: eggs, tomatoes, cumin",
		"2) Crack in eggs",
		"[ ] cumin",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResultNil(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestResolveImagePath(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "fridge.jpg")
	if err := os.WriteFile(photo, []byte{0xff, 0xd8}, 0o600); err != nil {
		t.Fatal(err)
	}
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("milk"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got, err := ResolveImagePath(photo); err != nil || got != photo {
		t.Errorf("ResolveImagePath(photo) = %q, %v", got, err)
	}
	for _, bad := range []string{dir, notes, filepath.Join(dir, "missing.jpg")} {
		if _, err := ResolveImagePath(bad); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}

func TestPromptForImagePath(t *testing.T) {
	var out bytes.Buffer
	got, err := PromptForImagePath(strings.NewReader(" \"/tmp/fridge.jpg\" \n"), &out)
	if err != nil || got != "/tmp/fridge.jpg" {
		t.Errorf("PromptForImagePath() = %q, %v", got, err)
	}
	if !strings.Contains(out.String(), "Fridge photo path") {
		t.Errorf("prompt not written: %q", out.String())
	}

	if _, err := PromptForImagePath(strings.NewReader("\n"), &out); !errors.Is(err, ErrNoImageSelected) {
		t.Errorf("empty input error = %v, want ErrNoImageSelected", err)
	}
}
