// Package lambdaboot holds the cold-start bootstrap shared by Lambda entry
// points: AWS config, the Gemini key from SSM, and startup logging.
package lambdaboot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/fpang/fridge-chef/internal/auth"
	"github.com/fpang/fridge-chef/internal/logging"
)

const (
	// APIKeyParamEnvVar overrides the SSM parameter holding the Gemini key.
	APIKeyParamEnvVar = "SSM_API_KEY_PARAM"
	// DefaultAPIKeyParam is used when APIKeyParamEnvVar is unset.
	DefaultAPIKeyParam = "/fridge-chef/prod/gemini-api-key"
)

// AWSClients holds the AWS SDK clients used by the Lambda.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// ParameterGetter is the subset of the SSM client used here.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// InitAWS loads the default AWS config. Fatals on error.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// APIKeyParam returns the SSM parameter name holding the Gemini key.
func APIKeyParam() string {
	return logging.EnvOrDefault(APIKeyParamEnvVar, DefaultAPIKeyParam)
}

// FetchGeminiKey returns GEMINI_API_KEY if set, otherwise reads the
// decrypted SSM parameter.
func FetchGeminiKey(ctx context.Context, client ParameterGetter) (string, error) {
	if key := os.Getenv(auth.APIKeyEnvVar); key != "" {
		return key, nil
	}

	paramName := APIKeyParam()
	start := time.Now()
	result, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read %s from SSM: %w", paramName, err)
	}
	if result.Parameter == nil || aws.ToString(result.Parameter.Value) == "" {
		return "", errors.New("SSM parameter " + paramName + " is empty")
	}

	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(start)).Msg("Gemini API key loaded from SSM")
	return aws.ToString(result.Parameter.Value), nil
}

// LoadGeminiKey resolves the Gemini key and exports it as GEMINI_API_KEY so
// the rest of the process can use auth.GetAPIKey. Fatals on error.
func LoadGeminiKey(client ParameterGetter) {
	key, err := FetchGeminiKey(context.Background(), client)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load Gemini API key")
	}
	os.Setenv(auth.APIKeyEnvVar, key)
}

// StartupLog returns a startup logger pre-filled with the init duration.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
