// Command devserver runs a local stand-in for the document chat service. It
// speaks the same HTTP contract as the real service but never parses PDFs or
// generates answers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gwi.com/dalal-chat/internal/api"
	"gwi.com/dalal-chat/internal/config"
	"gwi.com/dalal-chat/internal/core"
	"gwi.com/dalal-chat/internal/logging"
	"gwi.com/dalal-chat/internal/store"
)

func main() {
	envLoaded, cfgErr := config.LoadConfig()

	logger, err := logging.New(config.AppConfig.LogLevel, config.AppConfig.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfgErr != nil {
		logger.Fatal("Invalid configuration", zap.Error(cfgErr))
	}
	if !envLoaded {
		logger.Info("No .env file found, relying on environment variables")
	}

	readyDelay := flag.Duration("ready-delay", config.AppConfig.DevReadyDelay, "How long uploads take to become ready")
	flag.Parse()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbStore.Close()

	documents := core.NewDocumentService(dbStore, *readyDelay, logger)
	defer documents.Close()

	router := api.NewRouter(api.NewAPIHandler(documents, logger), logger)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  60 * time.Second, // large uploads
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting development server", zap.String("addr", serverAddr), zap.Duration("ready_delay", *readyDelay))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Could not listen", zap.String("addr", serverAddr), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting gracefully")
}
