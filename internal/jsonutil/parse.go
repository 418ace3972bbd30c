// Package jsonutil decodes JSON objects out of model responses. Even with a
// JSON response MIME type the model sometimes wraps its answer in a markdown
// fence or a sentence of prose.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrNoJSON is returned when a response contains no JSON object.
var ErrNoJSON = errors.New("no JSON object found in response")

const previewLength = 200

// StripFences returns the body of a ```json ... ``` (or bare ```) block, or
// the trimmed input when it is not fenced.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening fence line, including any language tag.
	_, body, ok := strings.Cut(text, "\n")
	if !ok {
		return text
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// ExtractObject returns the span from the first '{' to the last '}'.
func ExtractObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}

// ParseJSON strips fences and surrounding prose from raw and unmarshals the
// remaining object into T.
func ParseJSON[T any](raw string) (T, error) {
	var result T

	text, err := ExtractObject(StripFences(raw))
	if err != nil {
		return result, fmt.Errorf("%w (raw length: %d)", err, len(raw))
	}

	if err := json.Unmarshal([]byte(text), &result); err != nil {
		var zero T
		return zero, fmt.Errorf("invalid JSON: %w (text: %s)", err, preview(text))
	}
	return result, nil
}

func preview(s string) string {
	if len(s) <= previewLength {
		return s
	}
	cut := previewLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
