package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

// CLI flags
var (
	apiURLFlag  string
	timeoutFlag time.Duration
	pickFlag    bool
	jsonFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "fridge-cli",
	Short: "Suggest recipes from a photo of your fridge",
	Long: `Fridge CLI sends a photo of your fridge to the Fridge Chef API and prints
the ingredients it found, a few recipes you can make, and a shopping list.

The API location comes from FRIDGE_CHEF_API_BASE_URL (default
http://localhost:8080) and the request timeout from FRIDGE_CHEF_API_TIMEOUT.`,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image]",
	Short: "Analyze a fridge photo",
	Long: `Analyze a fridge photo and print recipe suggestions.

Examples:
  fridge-cli analyze ./fridge.jpg
  fridge-cli analyze --pick
  fridge-cli analyze ./fridge.jpg --json
  fridge-cli analyze   # Interactive mode - prompts for the image path`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAnalyze,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api", "", "Fridge Chef API base URL (overrides FRIDGE_CHEF_API_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Request timeout (overrides FRIDGE_CHEF_API_TIMEOUT)")

	analyzeCmd.Flags().BoolVar(&pickFlag, "pick", false, "Choose the photo with a file dialog")
	analyzeCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the raw analysis result as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
