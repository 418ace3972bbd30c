package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/fridge-chef/internal/chat"
	"github.com/fpang/fridge-chef/internal/cli"
	"github.com/fpang/fridge-chef/internal/config"
	"github.com/fpang/fridge-chef/internal/logging"
	"github.com/fpang/fridge-chef/internal/server"
)

// CLI flags
var (
	portFlag  int
	modelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "fridge-api",
	Short: "Backend API that turns fridge photos into recipe ideas",
	Long: `Fridge API starts an HTTP server that accepts a photo of your fridge
as a base64 data URL, asks Gemini which ingredients it can see, and answers
with recipe suggestions and a shopping list.

Settings come from the environment (or a .env file): PORT, GEMINI_MODEL,
FRIDGE_CHEF_ANALYZE_TIMEOUT, FRIDGE_CHEF_MAX_BODY_BYTES. Flags override them.

Examples:
  fridge-api
  fridge-api --port 9090
  fridge-api --model gemini-2.5-pro`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (default: $PORT or 8080)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Gemini model to use (default: $GEMINI_MODEL or "+chat.DefaultModelName+")")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if portFlag != 0 {
		cfg.Port = strconv.Itoa(portFlag)
	}
	model := modelFlag
	if model == "" {
		model = cfg.GeminiModel
	}
	if model == "" {
		model = chat.DefaultModelName
	}

	ctx := context.Background()
	client := cli.InitGeminiClient(ctx, model)
	analyzer := chat.NewFridgeAnalyzer(client,
		chat.WithModel(model),
		chat.WithAnalyzeTimeout(cfg.AnalyzeTimeout),
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.New(analyzer, server.Config{MaxBodyBytes: cfg.MaxBodyBytes}).Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.AnalyzeTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Graceful shutdown incomplete")
		}
	}()

	logging.NewStartupLogger("fridge-api").
		CommitHash(commitHash).
		BuildTime(buildTime).
		Config("port", cfg.Port).
		Config("model", model).
		Config("analyzeTimeout", cfg.AnalyzeTimeout.String()).
		Config("maxBodyBytes", strconv.FormatInt(cfg.MaxBodyBytes, 10)).
		Log()
	fmt.Printf("\n  Fridge Chef API: http://localhost:%s\n\n", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
