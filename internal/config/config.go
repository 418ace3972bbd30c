// Package config resolves runtime settings for the fridge-chef binaries from
// environment variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment variables.
const (
	EnvPort           = "PORT"
	EnvGeminiModel    = "GEMINI_MODEL"
	EnvAnalyzeTimeout = "FRIDGE_CHEF_ANALYZE_TIMEOUT"
	EnvMaxBodyBytes   = "FRIDGE_CHEF_MAX_BODY_BYTES"
	EnvAPIBaseURL     = "FRIDGE_CHEF_API_BASE_URL"
	EnvAPITimeout     = "FRIDGE_CHEF_API_TIMEOUT"
)

// Defaults.
const (
	DefaultPort           = "8080"
	DefaultAnalyzeTimeout = 120 * time.Second
	DefaultMaxBodyBytes   = 50 << 20 // 50 MB
	DefaultAPIBaseURL     = "http://localhost:8080"
	DefaultAPITimeout     = 90 * time.Second
)

// Server holds the backend API settings.
type Server struct {
	Port string
	// GeminiModel is empty when the model default should apply.
	GeminiModel    string
	AnalyzeTimeout time.Duration
	MaxBodyBytes   int64
}

// Addr returns the listen address for Port.
func (s *Server) Addr() string {
	return ":" + s.Port
}

// Client holds the settings used by binaries that call the backend.
type Client struct {
	BaseURL string
	Timeout time.Duration
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Variables already set are not overridden and missing files
// are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
		log.Debug().Str("file", name).Msg("Loaded environment file")
	}
	return nil
}

// LoadServer reads the backend settings.
func LoadServer() (*Server, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Server{
		Port:        envOr(EnvPort, DefaultPort),
		GeminiModel: strings.TrimSpace(os.Getenv(EnvGeminiModel)),
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid %s %q: must be a number between 1 and 65535", EnvPort, cfg.Port)
	}

	if cfg.AnalyzeTimeout, err = durationEnv(EnvAnalyzeTimeout, DefaultAnalyzeTimeout); err != nil {
		return nil, err
	}

	cfg.MaxBodyBytes = DefaultMaxBodyBytes
	if raw := os.Getenv(EnvMaxBodyBytes); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s %q: must be a positive byte count", EnvMaxBodyBytes, raw)
		}
		cfg.MaxBodyBytes = n
	}

	return cfg, nil
}

// LoadClient reads the settings for talking to the backend.
func LoadClient() (*Client, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Client{BaseURL: envOr(EnvAPIBaseURL, DefaultAPIBaseURL)}
	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return nil, err
	}

	var err error
	if cfg.Timeout, err = durationEnv(EnvAPITimeout, DefaultAPITimeout); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", EnvAPIBaseURL, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an http(s) URL", EnvAPIBaseURL, raw)
	}
	return nil
}

// durationEnv parses a Go duration ("90s", "2m") or a bare number of seconds.
func durationEnv(name string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", name, raw)
	}
	return d, nil
}

func envOr(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}
