package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/fpang/fridge-chef/internal/recipe"
)

type fakeAnalyzer struct {
	result   *recipe.AnalysisResult
	err      error
	panicMsg string

	calls int
	image string
}

func (f *fakeAnalyzer) AnalyzeImage(_ context.Context, image string) (*recipe.AnalysisResult, error) {
	f.calls++
	f.image = image
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.result, f.err
}

func sampleResult() *recipe.AnalysisResult {
	return &recipe.AnalysisResult{
		IngredientsDetected: []string{"eggs", "spinach"},
		Recipes: []recipe.Recipe{{
			Title:             "Spinach Omelette",
			Description:       "Quick breakfast",
			IngredientsNeeded: []string{"eggs", "spinach"},
			Instructions:      []string{"Whisk", "Cook"},
			CookingTime:       "10 mins",
			Difficulty:        "Easy",
		}},
		ShoppingListSuggestions: []string{"feta"},
	}
}

func serve(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) recipe.AnalyzeResponse {
	t.Helper()
	var env recipe.AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, rec.Body.String())
	}
	return env
}

func TestAnalyzeSuccess(t *testing.T) {
	analyzer := &fakeAnalyzer{result: sampleResult()}
	h := New(analyzer, Config{}).Handler()

	rec := serve(t, h, http.MethodPost, "/api/analyze", `{"image":"data:image/jpeg;base64,c2FtcGxl"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success || env.Data == nil || env.Error != "" {
		t.Fatalf("envelope = %+v", env)
	}
	if env.Data.Recipes[0].Title != "Spinach Omelette" {
		t.Errorf("recipes = %+v", env.Data.Recipes)
	}
	if analyzer.image != "data:image/jpeg;base64,c2FtcGxl" {
		t.Errorf("analyzer got image %q", analyzer.image)
	}
	if strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("success envelope should omit error: %s", rec.Body.String())
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		analyzer   *fakeAnalyzer
		wantStatus int
		wantError  string
		wantCalls  int
	}{
		{
			name:       "malformed JSON",
			method:     http.MethodPost,
			body:       `{"image":`,
			analyzer:   &fakeAnalyzer{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "missing image",
			method:     http.MethodPost,
			body:       `{}`,
			analyzer:   &fakeAnalyzer{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Image is required",
		},
		{
			name:       "blank image",
			method:     http.MethodPost,
			body:       `{"image":"   "}`,
			analyzer:   &fakeAnalyzer{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Image is required",
		},
		{
			name:       "analyzer failure",
			method:     http.MethodPost,
			body:       `{"image":"abc"}`,
			analyzer:   &fakeAnalyzer{err: errors.New("failed to generate content: quota")},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to analyze image: failed to generate content: quota",
			wantCalls:  1,
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			analyzer:   &fakeAnalyzer{},
			wantStatus: http.StatusMethodNotAllowed,
			wantError:  "Method not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.analyzer, Config{}).Handler()
			rec := serve(t, h, tt.method, "/api/analyze", tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Data != nil {
				t.Errorf("failure envelope should have success=false and no data: %+v", env)
			}
			if env.Error != tt.wantError {
				t.Errorf("error = %q, want %q", env.Error, tt.wantError)
			}
			if tt.analyzer.calls != tt.wantCalls {
				t.Errorf("analyzer calls = %d, want %d", tt.analyzer.calls, tt.wantCalls)
			}
		})
	}
}

func TestAnalyzeBodyTooLarge(t *testing.T) {
	analyzer := &fakeAnalyzer{result: sampleResult()}
	h := New(analyzer, Config{MaxBodyBytes: 64}).Handler()

	body := fmt.Sprintf(`{"image":"%s"}`, strings.Repeat("A", 1024))
	rec := serve(t, h, http.MethodPost, "/api/analyze", body)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != "Request body too large" {
		t.Errorf("error = %q", env.Error)
	}
	if analyzer.calls != 0 {
		t.Error("analyzer should not be called for oversized bodies")
	}
}

func TestHealth(t *testing.T) {
	h := New(&fakeAnalyzer{}, Config{OriginVerifySecret: "s3cret"}).Handler()
	for _, path := range []string{"/health", "/api/health"} {
		rec := serve(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"ok"}` {
			t.Errorf("%s body = %s", path, got)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	h := New(analyzer, Config{}).Handler()

	rec := serve(t, h, http.MethodOptions, "/api/analyze", "", "Origin", "http://localhost:5173")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Allow-Methods = %q", got)
	}
	if analyzer.calls != 0 {
		t.Error("preflight should not reach the analyzer")
	}
}

func TestRequestID(t *testing.T) {
	h := New(&fakeAnalyzer{}, Config{}).Handler()

	rec := serve(t, h, http.MethodGet, "/health", "")
	if id := rec.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request ID = %q, want a UUID", id)
	}

	rec = serve(t, h, http.MethodGet, "/health", "", RequestIDHeader, "trace-123")
	if id := rec.Header().Get(RequestIDHeader); id != "trace-123" {
		t.Errorf("request ID = %q, want caller's ID", id)
	}
}

func TestRecoverFromPanic(t *testing.T) {
	h := New(&fakeAnalyzer{panicMsg: "boom"}, Config{}).Handler()

	rec := serve(t, h, http.MethodPost, "/api/analyze", `{"image":"abc"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != "Internal server error" {
		t.Errorf("error = %q", env.Error)
	}
}

func TestOriginVerify(t *testing.T) {
	analyzer := &fakeAnalyzer{result: sampleResult()}
	h := New(analyzer, Config{OriginVerifySecret: "s3cret"}).Handler()

	rec := serve(t, h, http.MethodPost, "/api/analyze", `{"image":"abc"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status without header = %d, want 403", rec.Code)
	}

	rec = serve(t, h, http.MethodPost, "/api/analyze", `{"image":"abc"}`, "X-Origin-Verify", "s3cret")
	if rec.Code != http.StatusOK {
		t.Errorf("status with header = %d, want 200", rec.Code)
	}
	if analyzer.calls != 1 {
		t.Errorf("analyzer calls = %d, want 1", analyzer.calls)
	}
}

func TestGzipLargeResponses(t *testing.T) {
	result := sampleResult()
	for i := 0; i < 200; i++ {
		result.IngredientsDetected = append(result.IngredientsDetected, fmt.Sprintf("ingredient number %d", i))
	}
	h := New(&fakeAnalyzer{result: result}, Config{}).Handler()

	rec := serve(t, h, http.MethodPost, "/api/analyze", `{"image":"abc"}`, "Accept-Encoding", "gzip")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	var env recipe.AnalyzeResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decompressed body is not an envelope: %v", err)
	}
	if len(env.Data.IngredientsDetected) != 202 {
		t.Errorf("ingredients = %d, want 202", len(env.Data.IngredientsDetected))
	}
}
