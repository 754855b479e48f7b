package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/askbase/askbase/internal/api"
	"github.com/askbase/askbase/internal/api/widget"
	catalogpostgres "github.com/askbase/askbase/internal/catalog/postgres"
	"github.com/askbase/askbase/internal/chat"
	"github.com/askbase/askbase/internal/config"
	"github.com/askbase/askbase/internal/llm"
	"github.com/askbase/askbase/internal/observability"
	querypostgres "github.com/askbase/askbase/internal/query/postgres"
)

func main() {
	cfg, err := config.LoadFromEnv("askbase-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	db, err := catalogpostgres.Open(context.Background(), catalogpostgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	catalogReader := catalogpostgres.NewReader(db, cfg.Database.Schema)
	runner := querypostgres.NewRunner(db, logger)

	client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		ToolModel:   cfg.AI.ToolModel,
		ChatModel:   cfg.AI.ChatModel,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize completion client", slog.Any("error", err))
		os.Exit(1)
	}

	var fallback llm.Completer
	if cfg.Fallback.Enabled {
		knowledge, err := llm.NewKnowledgeClient(llm.KnowledgeConfig{
			BaseURL:      cfg.Fallback.BaseURL,
			APIKey:       cfg.Fallback.APIKey,
			Model:        cfg.Fallback.Model,
			CollectionID: cfg.Fallback.CollectionID,
			Timeout:      cfg.Fallback.Timeout,
		})
		if err != nil {
			logger.Error("failed to initialize knowledge client", slog.Any("error", err))
			os.Exit(1)
		}
		fallback = knowledge
		logger.Info("knowledge fallback enabled", slog.String("base_url", cfg.Fallback.BaseURL))
	}

	chatService := &chat.Service{
		Catalog:      catalogReader,
		Runner:       runner,
		LLM:          client,
		Fallback:     fallback,
		Logger:       logger,
		ErrorMessage: cfg.Chat.ErrorMessage,
	}

	handler := api.NewHandler(cfg, api.Dependencies{
		Logger:    logger,
		Readiness: catalogReader.HealthCheck,
		Chat:      chatService,
		Widget:    widget.Handler(),
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("askbase api listening", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
	logger.Info("shutdown complete")
}
