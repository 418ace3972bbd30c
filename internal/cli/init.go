package cli

import (
	"context"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/fridge-chef/internal/auth"
	"github.com/fpang/fridge-chef/internal/chat"
)

// InitGeminiClient creates a Gemini client and validates the key against
// model. Exits fatally on failure.
func InitGeminiClient(ctx context.Context, model string) *genai.Client {
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		HandleValidationError(err)
	}

	client, err := chat.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Gemini client")
	}

	if err := auth.ValidateAPIKey(ctx, client, model); err != nil {
		HandleValidationError(err)
	}

	log.Info().Str("model", model).Msg("API key validation complete - ready for analysis")
	return client
}
