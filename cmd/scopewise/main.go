package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/scopewise/internal/cli"
	"github.com/alexanderramin/scopewise/internal/config"
	"github.com/alexanderramin/scopewise/internal/llm"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	llmCfg := cfg.LLMConfig()

	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewZapObserver(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		LLM:       llmCfg,
		Rates:     cfg.RateTable(),
		Tolerance: cfg.Tolerance,
		Marker:    cfg.Marker,
		Logger:    logger,
	}

	// A missing key only blocks commands that call the provider.
	client, err := llm.NewClient(ctx, llmCfg, observer)
	if err != nil {
		logger.Debug("llm client unavailable", zap.String("provider", string(llmCfg.Provider)), zap.Error(err))
		app.ClientErr = err
	} else {
		app.Client = client
	}

	// Detect interactive terminal for the brief form and spinner.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
