package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fpang/fridge-chef/internal/recipe"
)

const testImage = "data:image/jpeg;base64,AAAA"

func sampleResult() *recipe.AnalysisResult {
	return &recipe.AnalysisResult{
		IngredientsDetected: []string{"egg", "milk"},
		Recipes: []recipe.Recipe{{
			Title:             "Omelette",
			Description:       "...",
			IngredientsNeeded: []string{"egg", "milk"},
			Instructions:      []string{"Beat eggs", "Cook"},
			CookingTime:       "10 min",
			Difficulty:        "Easy",
		}},
		ShoppingListSuggestions: []string{"cheese"},
	}
}

// newTestClient creates a Client pointing at a test HTTP server that
// answers every request with handler.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts = append([]Option{WithHTTPClient(server.Client())}, opts...)
	return NewClient(server.URL+"/", opts...), server
}

func TestSubmitImageSuccess(t *testing.T) {
	want := sampleResult()
	var calls int32

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/analyze" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected Content-Type: %s", ct)
		}

		var req recipe.AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Image != testImage {
			t.Errorf("unexpected image: %q", req.Image)
		}

		json.NewEncoder(w).Encode(recipe.AnalyzeResponse{Success: true, Data: want})
	})

	got, err := client.SubmitImage(context.Background(), testImage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("result mismatch:\n got  %+v\n want %+v", got, want)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly 1 request, got %d", n)
	}
}

func TestSubmitImageEnvelopeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "unsuccessful with error text",
			status:  http.StatusInternalServerError,
			body:    `{"success":false,"error":"X"}`,
			wantMsg: "X",
		},
		{
			name:    "unsuccessful with 200 status",
			status:  http.StatusOK,
			body:    `{"success":false,"error":"quota exceeded"}`,
			wantMsg: "quota exceeded",
		},
		{
			name:    "unsuccessful without error text",
			status:  http.StatusBadRequest,
			body:    `{"success":false}`,
			wantMsg: FallbackMessage,
		},
		{
			name:    "success without data",
			status:  http.StatusOK,
			body:    `{"success":true}`,
			wantMsg: FallbackMessage,
		},
		{
			name:    "success with null data",
			status:  http.StatusOK,
			body:    `{"success":true,"data":null}`,
			wantMsg: FallbackMessage,
		},
		{
			name:    "non-JSON body",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantMsg: FallbackMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			got, err := client.SubmitImage(context.Background(), testImage)
			if got != nil {
				t.Errorf("expected nil result, got %+v", got)
			}
			if !errors.Is(err, ErrRequestFailed) {
				t.Fatalf("expected ErrRequestFailed, got %v", err)
			}

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected *RequestError, got %T", err)
			}
			if reqErr.Kind != KindProtocol {
				t.Errorf("Kind = %s, want protocol", reqErr.Kind)
			}
			if reqErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", reqErr.Message, tt.wantMsg)
			}
			if reqErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", reqErr.Status, tt.status)
			}
		})
	}
}

func TestSubmitImageEmptyImage(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.SubmitImage(context.Background(), "")
	if kind, ok := KindOf(err); !ok || kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if Message(err) != EmptyImageMessage {
		t.Errorf("Message = %q, want %q", Message(err), EmptyImageMessage)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("expected no network call, got %d", n)
	}
}

func TestSubmitImageUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url)
	_, err := client.SubmitImage(context.Background(), testImage)

	if kind, ok := KindOf(err); !ok || kind != KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	if Message(err) != FallbackMessage {
		t.Errorf("Message = %q, want %q", Message(err), FallbackMessage)
	}
}

func TestSubmitImageTimeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	_, err := client.SubmitImage(context.Background(), testImage)
	if kind, ok := KindOf(err); !ok || kind != KindTimeout {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if Message(err) != TimeoutMessage {
		t.Errorf("Message = %q, want %q", Message(err), TimeoutMessage)
	}
}

func TestSubmitImageContextDeadline(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.SubmitImage(ctx, testImage)
	if kind, ok := KindOf(err); !ok || kind != KindTimeout {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	shared := &http.Client{}
	tests := []struct {
		name string
		opts []Option
		want time.Duration
	}{
		{"default", nil, DefaultTimeout},
		{"timeout only", []Option{WithTimeout(5 * time.Second)}, 5 * time.Second},
		{"timeout after client", []Option{WithHTTPClient(shared), WithTimeout(5 * time.Second)}, 5 * time.Second},
		{"timeout before client", []Option{WithTimeout(5 * time.Second), WithHTTPClient(shared)}, 5 * time.Second},
		{"client keeps its timeout", []Option{WithHTTPClient(&http.Client{Timeout: time.Second})}, time.Second},
		{"nil client", []Option{WithHTTPClient(nil), WithTimeout(5 * time.Second)}, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("http://localhost:8080", tt.opts...)
			if c.httpClient.Timeout != tt.want {
				t.Errorf("Timeout = %s, want %s", c.httpClient.Timeout, tt.want)
			}
			if c.httpClient == shared {
				t.Error("client should hold a copy of the supplied http.Client")
			}
		})
	}
	if shared.Timeout != 0 {
		t.Errorf("supplied http.Client was modified: Timeout = %s", shared.Timeout)
	}
}

func TestEndpointTrimsTrailingSlash(t *testing.T) {
	c := NewClient("https://api.example.com/")
	if got, want := c.Endpoint(), "https://api.example.com/api/analyze"; got != want {
		t.Errorf("Endpoint() = %q, want %q", got, want)
	}
}

func TestMessageForForeignError(t *testing.T) {
	if got := Message(errors.New("boom")); got != FallbackMessage {
		t.Errorf("Message() = %q, want fallback", got)
	}
	if _, ok := KindOf(errors.New("boom")); ok {
		t.Error("KindOf should not recognise foreign errors")
	}
}

func TestRequestErrorString(t *testing.T) {
	err := &RequestError{Kind: KindProtocol, Message: "X", Err: errors.New("cause")}
	if !strings.Contains(err.Error(), "protocol") || !strings.Contains(err.Error(), "cause") {
		t.Errorf("unexpected Error(): %s", err.Error())
	}
}
