// Package chat talks to Gemini on behalf of the backend: it turns a fridge
// photo into detected ingredients, recipe ideas, and a shopping list.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/fridge-chef/internal/assets"
	"github.com/fpang/fridge-chef/internal/imagedata"
	"github.com/fpang/fridge-chef/internal/jsonutil"
	"github.com/fpang/fridge-chef/internal/metrics"
	"github.com/fpang/fridge-chef/internal/recipe"
)

const (
	// DefaultAnalyzeTimeout bounds one model call.
	DefaultAnalyzeTimeout = 120 * time.Second

	analysisTemperature = 0.4
	responseMIMEType    = "application/json"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("no response from Gemini")

// contentGenerator is the part of genai.Models the analyzer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// FridgeAnalyzer sends one fridge photo to Gemini per call.
type FridgeAnalyzer struct {
	models       contentGenerator
	model        string
	timeout      time.Duration
	maxDimension int
	metricsOut   io.Writer
}

// AnalyzerOption configures a FridgeAnalyzer.
type AnalyzerOption func(*FridgeAnalyzer)

// WithModel overrides the Gemini model. An empty name keeps the default.
func WithModel(model string) AnalyzerOption {
	return func(a *FridgeAnalyzer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithAnalyzeTimeout bounds each model call.
func WithAnalyzeTimeout(d time.Duration) AnalyzerOption {
	return func(a *FridgeAnalyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMaxDimension sets the longest image edge sent to the model. Zero or
// less disables downscaling.
func WithMaxDimension(px int) AnalyzerOption {
	return func(a *FridgeAnalyzer) {
		a.maxDimension = px
	}
}

// WithMetricsWriter redirects EMF metric lines (stdout by default).
func WithMetricsWriter(w io.Writer) AnalyzerOption {
	return func(a *FridgeAnalyzer) {
		a.metricsOut = w
	}
}

// NewFridgeAnalyzer creates an analyzer backed by client.
func NewFridgeAnalyzer(client *genai.Client, opts ...AnalyzerOption) *FridgeAnalyzer {
	return newFridgeAnalyzer(client.Models, opts...)
}

func newFridgeAnalyzer(models contentGenerator, opts ...AnalyzerOption) *FridgeAnalyzer {
	a := &FridgeAnalyzer{
		models:       models,
		model:        GetModelName(),
		timeout:      DefaultAnalyzeTimeout,
		maxDimension: imagedata.DefaultMaxDimension,
		metricsOut:   os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the Gemini model ID in use.
func (a *FridgeAnalyzer) Model() string {
	return a.model
}

// AnalyzeImage identifies the ingredients in a fridge photo and suggests
// recipes. imageDataURL is a base64 data URL or bare base64 JPEG.
//
// The model call ignores cancellation of ctx so that a client hanging up
// does not waste a half-finished generation, but it is still bounded by the
// analyzer's own timeout.
func (a *FridgeAnalyzer) AnalyzeImage(ctx context.Context, imageDataURL string) (*recipe.AnalysisResult, error) {
	start := time.Now()
	rec := metrics.NewWithWriter(metrics.Namespace, a.metricsOut).
		Dimension("Operation", "analyze").
		Property("model", a.model)
	defer rec.Flush()

	result, err := a.analyze(ctx, imageDataURL)
	rec.Duration("AnalyzeLatencyMs", time.Since(start))
	if err != nil {
		rec.Dimension("Result", "error").Count("AnalyzeResult")
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("Fridge analysis failed")
		return nil, err
	}

	rec.Dimension("Result", "success").
		Count("AnalyzeResult").
		Metric("IngredientsDetected", float64(len(result.IngredientsDetected)), metrics.UnitCount).
		Metric("RecipesSuggested", float64(len(result.Recipes)), metrics.UnitCount)

	log.Info().
		Int("ingredients", len(result.IngredientsDetected)).
		Int("recipes", len(result.Recipes)).
		Int("shopping_items", len(result.ShoppingListSuggestions)).
		Dur("duration", time.Since(start)).
		Msg("Fridge analysis complete")
	return result, nil
}

func (a *FridgeAnalyzer) analyze(ctx context.Context, imageDataURL string) (*recipe.AnalysisResult, error) {
	data, mimeType, err := imagedata.ParseDataURL(imageDataURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse image: %w", err)
	}

	metadataContext := describeMetadata(data)

	if a.maxDimension > 0 {
		resized, resizedMIME, err := imagedata.Downscale(data, mimeType, a.maxDimension)
		if err != nil {
			log.Warn().Err(err).Str("mime_type", mimeType).Msg("Could not downscale image, sending original")
		} else {
			data, mimeType = resized, resizedMIME
		}
	}

	temperature := float32(analysisTemperature)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: responseMIMEType,
	}
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			{Text: assets.RenderFridgeAnalysisPrompt(metadataContext)},
		},
	}}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	log.Debug().
		Str("model", a.model).
		Str("mime_type", mimeType).
		Int("image_bytes", len(data)).
		Msg("Sending fridge photo to Gemini")

	resp, err := a.models.GenerateContent(callCtx, a.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}

	parsed, err := jsonutil.ParseJSON[recipe.AnalysisResult](text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w", err)
	}
	return recipe.Normalize(&parsed), nil
}

// describeMetadata summarises the photo's EXIF data for the prompt. Photos
// without EXIF yield "".
func describeMetadata(data []byte) string {
	meta, err := imagedata.ExtractMetadata(data)
	if err != nil {
		log.Debug().Err(err).Msg("No EXIF metadata in image")
		return ""
	}

	var lines []string
	if meta.HasDate {
		lines = append(lines, "Taken: "+meta.DateTaken.Format("Monday, January 2, 2006 at 3:04 PM"))
	}
	if camera := meta.Camera(); camera != "" {
		lines = append(lines, "Camera: "+camera)
	}

	log.Debug().
		Bool("has_date", meta.HasDate).
		Str("camera", meta.Camera()).
		Msg("Image metadata extracted")
	return strings.Join(lines, "\n")
}
