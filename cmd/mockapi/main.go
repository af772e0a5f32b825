// Command mockapi serves the articles REST API the blog client talks to,
// backed by a seeded in-memory repository or MongoDB.
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

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/api"
	"github.com/quillpress/blog-client/internal/api/handler"
	"github.com/quillpress/blog-client/internal/core/ports"
	"github.com/quillpress/blog-client/internal/core/service"
	"github.com/quillpress/blog-client/internal/infrastructure/db/memory"
	"github.com/quillpress/blog-client/internal/infrastructure/db/mongo"
	"github.com/quillpress/blog-client/internal/pkg/config"
	"github.com/quillpress/blog-client/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("mockapi exited with error")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadServer(ctx)
	log := logger.Init(logger.Options{Level: cfg.LogLevel, App: "mockapi", Pretty: cfg.Env == "development"})

	repo, categories, checks, cleanup, err := openRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := service.NewArticleService(repo, categories, logger.Component("articles"))
	e := api.NewRouter(api.Dependencies{
		Articles:  svc,
		JWTSecret: cfg.JWTSecret,
		Checks:    checks,
		Logger:    logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("repository", cfg.Repository).Bool("auth", cfg.JWTSecret != "").Msg("mockapi listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openRepository(ctx context.Context, cfg *config.ServerConfig, log zerolog.Logger) (ports.ArticleRepository, ports.CategoryRepository, map[string]handler.Check, func(), error) {
	switch cfg.Repository {
	case "mongo":
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, nil, err
		}
		cleanup := func() { _ = client.Disconnect(context.Background()) }

		articles := mongo.NewArticleRepository(db)
		if err := articles.EnsureIndexes(ctx); err != nil {
			cleanup()
			return nil, nil, nil, nil, err
		}
		categories := mongo.NewCategoryRepository(db)
		if err := categories.Seed(ctx, memory.SeedCategories()); err != nil {
			cleanup()
			return nil, nil, nil, nil, err
		}
		checks := map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongo.Ping(ctx, db) },
		}
		return articles, categories, checks, cleanup, nil

	case "memory", "":
		log.Info().Msg("using seeded in-memory repository")
		return memory.NewArticleRepository(memory.SeedArticles(time.Now().UTC())...),
			memory.NewCategoryRepository(memory.SeedCategories()...),
			nil, func() {}, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown MOCK_REPOSITORY %q", cfg.Repository)
	}
}
