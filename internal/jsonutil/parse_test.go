package jsonutil

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

type sample struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"single line fence", "```{}```", "```{}```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    sample
		wantErr bool
	}{
		{
			name: "bare object",
			raw:  `{"name":"omelette","items":["eggs"]}`,
			want: sample{Name: "omelette", Items: []string{"eggs"}},
		},
		{
			name: "fenced object",
			raw:  "```json\n{\"name\":\"soup\",\"items\":[]}\n```",
			want: sample{Name: "soup", Items: []string{}},
		},
		{
			name: "surrounded by prose",
			raw:  "Here is what I found: {\"name\":\"salad\"} Enjoy!",
			want: sample{Name: "salad"},
		},
		{
			name:    "no object",
			raw:     "I could not see a fridge in this photo.",
			wantErr: true,
		},
		{
			name:    "malformed",
			raw:     `{"name": }`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON[sample](tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Name != tt.want.Name || len(got.Items) != len(tt.want.Items) {
				t.Errorf("ParseJSON() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseJSONNoObjectWrapsSentinel(t *testing.T) {
	_, err := ParseJSON[sample]("nothing here")
	if !errors.Is(err, ErrNoJSON) {
		t.Errorf("expected ErrNoJSON, got %v", err)
	}
}

func TestParseJSONPreviewTruncated(t *testing.T) {
	raw := `{"name": ` + strings.Repeat("x", 500) + `}`
	_, err := ParseJSON[sample](raw)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "...") {
		t.Errorf("expected truncated preview in %q", err.Error())
	}
}

func TestPreviewKeepsRunesWhole(t *testing.T) {
	// 199 ASCII bytes put the two-byte 'é' across the cut point.
	s := strings.Repeat("a", previewLength-1) + strings.Repeat("é", 10)
	got := preview(s)
	if !utf8.ValidString(got) {
		t.Errorf("preview produced invalid UTF-8: %q", got[len(got)-8:])
	}
	if !strings.HasSuffix(got, "...") || len(got) != previewLength-1+len("...") {
		t.Errorf("preview length = %d, want %d", len(got), previewLength-1+len("..."))
	}
	if short := "é"; preview(short) != short {
		t.Errorf("short input should pass through unchanged")
	}
}
