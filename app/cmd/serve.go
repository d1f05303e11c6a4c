package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pipelineai/app/config"
	"pipelineai/app/usecase"
	"pipelineai/internal/domain/repository"
	mongorepo "pipelineai/internal/infrastructure/store/mongodb"
	"pipelineai/internal/infrastructure/store/sqlite"
	"pipelineai/internal/infrastructure/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PipelineAI HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.LLM.APIKey == config.PlaceholderAPIKey {
		logger.Warn("OPENAI_API_KEY not set, every request will use the template fallback")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// History store
	repo, closeRepo, err := openHistory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	var (
		history usecase.HistoryUsecase
		genOpts []usecase.GeneratorOption
	)
	if repo != nil {
		svc := usecase.NewHistoryService(repo)
		history = svc
		genOpts = append(genOpts, usecase.WithRecorder(svc))
	}

	generator := usecase.NewPipelineGeneratorFromConfig(cfg.LLM, logger, genOpts...)

	// Transport (HTTP handlers)
	handler := transport.NewPipelineHandler(generator, history, logger, prometheus.DefaultRegisterer)

	// Router and server
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", addr, "model", cfg.LLM.Model)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", "err", err)
			cancel()
		}
	}()

	// OS signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}

	logger.Info("service stopped")
	return nil
}

// openHistory picks mongo when MONGO_URI is set, sqlite otherwise. A nil
// repository means history is disabled.
func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.GenerationRepository, func(), error) {
	noop := func() {}
	if !cfg.History.Enabled {
		logger.Info("generation history disabled")
		return nil, noop, nil
	}

	if cfg.Mongo.URI != "" {
		mongoCtx, mongoCancel := context.WithTimeout(ctx, 10*time.Second)
		defer mongoCancel()
		client, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, noop, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(mongoCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, noop, fmt.Errorf("mongo ping: %w", err)
		}
		logger.Info("connected to mongo", "database", cfg.Mongo.Database)

		closeFn := func() {
			logger.Info("disconnecting mongo")
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("mongo disconnect error", "err", err)
			}
		}
		return mongorepo.NewMongoGenerationRepo(client.Database(cfg.Mongo.Database)), closeFn, nil
	}

	repo, err := sqlite.NewGenerationRepo(cfg.SQLite.Path)
	if err != nil {
		return nil, noop, fmt.Errorf("open sqlite history: %w", err)
	}
	logger.Info("using sqlite history", "path", cfg.SQLite.Path)

	closeFn := func() {
		if err := repo.Close(); err != nil {
			logger.Error("sqlite close error", "err", err)
		}
	}
	return repo, closeFn, nil
}
