package chat

import "os"

// Gemini model IDs that can read images and return JSON.
//
// | Model Name             | API Model ID           | Use Case                      |
// |------------------------|------------------------|-------------------------------|
// | Gemini 3 Flash         | gemini-3-flash-preview | Best for speed + intelligence |
// | Gemini 2.5 Pro         | gemini-2.5-pro         | Stable, high-reasoning tasks  |
// | Gemini 2.5 Flash       | gemini-2.5-flash       | Stable, balanced performance  |
// | Gemini 2.5 Flash-Lite  | gemini-2.5-flash-lite  | High-throughput, lowest cost  |
const (
	ModelGemini3FlashPreview = "gemini-3-flash-preview"
	ModelGemini25Pro         = "gemini-2.5-pro"
	ModelGemini25Flash       = "gemini-2.5-flash"
	ModelGemini25FlashLite   = "gemini-2.5-flash-lite"
)

// DefaultModelName is used when GEMINI_MODEL is unset.
const DefaultModelName = ModelGemini25Flash

// GetModelName returns GEMINI_MODEL if set, else DefaultModelName.
func GetModelName() string {
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		return env
	}
	return DefaultModelName
}
