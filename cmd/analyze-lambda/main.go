// Package main provides the Lambda entry point for the fridge analysis API.
//
// It serves the same handler as fridge-api behind API Gateway (HTTP API,
// payload v2). The Gemini key is read from SSM Parameter Store at cold start.
//
// Endpoints:
//
//	GET  /api/health   health check
//	POST /api/analyze  analyze a fridge photo
package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/fridge-chef/internal/auth"
	"github.com/fpang/fridge-chef/internal/chat"
	"github.com/fpang/fridge-chef/internal/config"
	"github.com/fpang/fridge-chef/internal/lambdaboot"
	"github.com/fpang/fridge-chef/internal/logging"
	"github.com/fpang/fridge-chef/internal/server"
)

var handler http.Handler

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	lambdaboot.LoadGeminiKey(aws.SSM)

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	client, err := chat.NewGeminiClient(context.Background(), os.Getenv(auth.APIKeyEnvVar))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	analyzer := chat.NewFridgeAnalyzer(client,
		chat.WithModel(cfg.GeminiModel),
		chat.WithAnalyzeTimeout(cfg.AnalyzeTimeout),
	)

	originVerifySecret := os.Getenv("ORIGIN_VERIFY_SECRET")
	if originVerifySecret == "" {
		log.Warn().Msg("ORIGIN_VERIFY_SECRET not set; origin verification disabled")
	}

	handler = server.New(analyzer, server.Config{
		MaxBodyBytes:       cfg.MaxBodyBytes,
		OriginVerifySecret: originVerifySecret,
	}).Handler()

	lambdaboot.StartupLog("analyze-lambda", initStart).
		CommitHash(commitHash).
		BuildTime(buildTime).
		SSMParam("geminiApiKey", lambdaboot.APIKeyParam()).
		Feature("originVerify", originVerifySecret != "").
		Config("model", analyzer.Model()).
		Config("analyzeTimeout", cfg.AnalyzeTimeout.String()).
		Config("maxBodyBytes", strconv.FormatInt(cfg.MaxBodyBytes, 10)).
		Log()
}

func main() {
	adapter := httpadapter.NewV2(handler)
	lambda.Start(adapter.ProxyWithContext)
}
