package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/fridge-chef/internal/cli"
	"github.com/fpang/fridge-chef/internal/config"
	"github.com/fpang/fridge-chef/internal/gateway"
	"github.com/fpang/fridge-chef/internal/imagedata"
	"github.com/fpang/fridge-chef/internal/logging"
	"github.com/fpang/fridge-chef/internal/session"
)

func runAnalyze(cmd *cobra.Command, args []string) {
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

	path, err := choosePath(args)
	if err != nil {
		if errors.Is(err, cli.ErrNoImageSelected) {
			fmt.Fprintln(os.Stderr, "No image selected.")
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to choose image")
	}
	if path, err = cli.ResolveImagePath(path); err != nil {
		log.Fatal().Err(err).Msg("Invalid image")
	}

	image, err := imagedata.LoadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load image")
	}

	client := gateway.NewClient(cfg.BaseURL, gateway.WithTimeout(cfg.Timeout))
	sess := session.New(client, session.NewConsoleNotifier(os.Stderr, colorEnabled(os.Stderr)))
	unsubscribe := sess.Subscribe(func(s session.State) {
		log.Debug().Str("phase", s.Phase().String()).Msg("Session state changed")
		if s.IsAnalyzing {
			fmt.Fprintf(os.Stderr, "Analyzing %s ...\n", path)
		}
	})
	defer unsubscribe()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Debug().Str("endpoint", client.Endpoint()).Dur("timeout", cfg.Timeout).Msg("Submitting image")
	start := time.Now()
	sess.SetImage(image)
	state, _ := sess.AnalyzeImage(ctx, image)
	if state.Error != "" || state.Result == nil {
		// The console notifier already printed the failure.
		os.Exit(1)
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state.Result); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode result")
		}
		return
	}

	cli.PrintResult(os.Stdout, state.Result)
	fmt.Fprintf(os.Stderr, "Analyzed in %s\n", cli.FormatDurationShort(time.Since(start)))
}

// choosePath resolves the image from the argument, the file dialog, or an
// interactive prompt, in that order.
func choosePath(args []string) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case pickFlag:
		return cli.PickImage()
	default:
		return cli.PromptForImagePath(os.Stdin, os.Stderr)
	}
}

// colorEnabled reports whether f is a terminal and NO_COLOR is unset.
func colorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
