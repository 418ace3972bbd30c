package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/fridge-chef/internal/config"
	"github.com/fpang/fridge-chef/internal/gateway"
	"github.com/fpang/fridge-chef/internal/logging"
	"github.com/fpang/fridge-chef/internal/mcpserver"
	"github.com/fpang/fridge-chef/internal/session"
)

var version = "dev"

// CLI flags
var (
	apiURLFlag  string
	timeoutFlag time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "fridge-mcp",
	Short: "MCP server exposing fridge photo analysis as tools",
	Long: `Fridge MCP runs a Model Context Protocol server over stdin/stdout.
Assistants can call analyze_fridge_photo with a local image path, read the
session with session_state, and clear it with reset_session.

Photos are analyzed by the Fridge Chef API at FRIDGE_CHEF_API_BASE_URL.
Logs go to stderr; stdout carries the protocol.`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVar(&apiURLFlag, "api", "", "Fridge Chef API base URL (overrides FRIDGE_CHEF_API_BASE_URL)")
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Request timeout (overrides FRIDGE_CHEF_API_TIMEOUT)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if apiURLFlag != "" {
		cfg.BaseURL = apiURLFlag
	}
	if timeoutFlag > 0 {
		cfg.Timeout = timeoutFlag
	}

	client := gateway.NewClient(cfg.BaseURL, gateway.WithTimeout(cfg.Timeout))
	sess := session.New(client, session.LogNotifier{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.NewStartupLogger("fridge-mcp").
		Config("apiBaseURL", cfg.BaseURL).
		Config("timeout", cfg.Timeout.String()).
		Log()

	if err := mcpserver.Run(ctx, mcpserver.New(sess, version)); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
