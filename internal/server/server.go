// Package server is the backend HTTP API: it accepts a fridge photo as a
// base64 data URL and answers with the analysis envelope.
//
// Endpoints:
//
//	GET  /health        health check
//	GET  /api/health    health check (API Gateway route)
//	POST /api/analyze   analyze a fridge photo
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/fridge-chef/internal/recipe"
)

// DefaultMaxBodyBytes limits request bodies (photos arrive base64-encoded).
const DefaultMaxBodyBytes = 50 << 20 // 50 MB

// Client-facing error messages.
const (
	msgInvalidBody   = "Invalid request body"
	msgImageRequired = "Image is required"
	msgBodyTooLarge  = "Request body too large"
	msgAnalyzeFailed = "Failed to analyze image: "
	msgInternal      = "Internal server error"
	msgMethod        = "Method not allowed"
	msgForbidden     = "Forbidden"
)

// Analyzer turns an image data URL into recipe suggestions.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, imageDataURL string) (*recipe.AnalysisResult, error)
}

// Config controls the HTTP surface.
type Config struct {
	// MaxBodyBytes caps request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// OriginVerifySecret, when set, must match the X-Origin-Verify header on
	// every API request. CloudFront injects it so API Gateway cannot be
	// called directly.
	OriginVerifySecret string
}

// Server routes API requests to an Analyzer.
type Server struct {
	analyzer Analyzer
	cfg      Config
}

// New creates a Server.
func New(analyzer Analyzer, cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{analyzer: analyzer, cfg: cfg}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc(recipe.AnalyzePath, s.handleAnalyze)

	var h http.Handler = mux
	h = withGzip(h)
	h = withOriginVerify(s.cfg.OriginVerifySecret, h)
	h = withCORS(h)
	h = withRecover(h)
	h = withLogging(h)
	h = withRequestID(h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httpError(w, http.StatusMethodNotAllowed, msgMethod)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /api/analyze
// Body: {"image": "data:image/jpeg;base64,..."}
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, msgMethod)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	var req recipe.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		httpError(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}

	if strings.TrimSpace(req.Image) == "" {
		httpError(w, http.StatusBadRequest, msgImageRequired)
		return
	}

	log.Debug().
		Str("requestId", RequestIDFromContext(r.Context())).
		Int("imageLength", len(req.Image)).
		Msg("Analyze request received")

	result, err := s.analyzer.AnalyzeImage(r.Context(), req.Image)
	if err != nil {
		httpError(w, http.StatusInternalServerError, msgAnalyzeFailed+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, recipe.AnalyzeResponse{Success: true, Data: result})
}
