package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CTAG07/MarkovMania/pkg/corpus"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chain over an HTTP API",
		Long: `Start the HTTP API. If generator_config.corpus_path is set the chain is
trained on it at startup; otherwise train it with POST /api/markov/train.

The server stops on SIGINT or SIGTERM, or when asked to via the API. A restart
requested via the API reloads the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(root)
		},
	}
}

func serve(root *rootOptions) error {
	baseLogger := root.newLogger(os.Stdout, "info")

	actionChan := make(chan string, 1)

	go func() {
		osSignalChan := make(chan os.Signal, 1)
		signal.Notify(osSignalChan, syscall.SIGINT, syscall.SIGTERM)
		<-osSignalChan // Wait for a signal
		baseLogger.Info("OS signal received, initiating shutdown.")
		actionChan <- actionShutdown
	}()

	for {
		action, err := run(root, actionChan)
		if err != nil {
			baseLogger.Error("An error occurred during server run, shutting down.", "error", err)
			return err
		}

		if action != actionRestart {
			break
		}
		baseLogger.Info("--- Server Restarting ---")
	}

	baseLogger.Info("MarkovMania has shut down.")
	return nil
}

// run hosts the API server and returns whenever the server is shut down or restarted.
func run(root *rootOptions, actionChan chan string) (string, error) {
	cm, err := NewConfigManager(root.configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := cm.Get()

	logger := root.newLogger(os.Stdout, cfg.Server.LogLevel)
	cm.SetLogger(logger)
	logger.Info("Starting server cycle...")

	db, store, err := openHistory(cfg.Server, logger)
	if err != nil {
		return "", err
	}

	app := NewApp(*cfg.Generator, store, logger)
	if path := cfg.Generator.CorpusPath; path != "" {
		trained, err := app.TrainFile(path, cfg.Server.MaxCorpusBytes)
		switch {
		case errors.Is(err, corpus.ErrEmpty):
			logger.Warn("Corpus contains no text", "path", path)
		case err != nil:
			// The API can still be used to train from a request body.
			logger.Error("Failed to load corpus", "path", path, "error", err)
		default:
			logger.Info("Corpus loaded", "path", path, "summary", trained.describe())
		}
	}

	server := NewServer(cm, app, db, store, logger, actionChan)
	apiHttpServer := &http.Server{
		Addr:              cfg.Server.ApiAddr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting api server", "address", apiHttpServer.Addr)
		if err := apiHttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Api server failed", "error", err)
		}
	}()

	action := <-actionChan // Block here until API or OS signal sends an action.

	logger.Info("Stopping server for " + action + "...")
	timeout := time.Duration(cfg.Server.ShutdownTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = apiHttpServer.Shutdown(ctx); err != nil {
		logger.Error("Api server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped.")

	logger.Info("Closing database connection.")
	store.Close()
	if err = db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	return action, nil
}
