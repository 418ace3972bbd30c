// Package assets provides embedded static assets for the application.
//
// Prompt templates are stored as text files under prompts/ and embedded at
// compile time.
package assets

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed prompts/fridge-analysis.txt
var fridgeAnalysisTemplate string

var fridgeAnalysisTmpl = template.Must(template.New("fridge-analysis").Parse(fridgeAnalysisTemplate))

// PromptData holds the dynamic data injected into prompt templates.
type PromptData struct {
	// MetadataContext is a short description of the photo's EXIF data.
	// Empty if the image carried none.
	MetadataContext string
}

// RenderFridgeAnalysisPrompt renders the ingredient and recipe prompt sent
// alongside the fridge photo.
func RenderFridgeAnalysisPrompt(metadataContext string) string {
	var buf bytes.Buffer
	// The template has no failure paths beyond a write to a bytes.Buffer.
	_ = fridgeAnalysisTmpl.Execute(&buf, PromptData{MetadataContext: metadataContext})
	return buf.String()
}
