package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aeroprep/questionbank/internal/config"
	"github.com/aeroprep/questionbank/internal/delivery/httpapi"
	"github.com/aeroprep/questionbank/internal/domain/entities"
	"github.com/aeroprep/questionbank/internal/infra/postgres"
	pgrepo "github.com/aeroprep/questionbank/internal/infra/postgres/repository"
	"github.com/aeroprep/questionbank/internal/loader"
	"github.com/aeroprep/questionbank/internal/logger"
	"github.com/aeroprep/questionbank/internal/repository"
	"github.com/aeroprep/questionbank/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Static question files first, database last so its questions sit
	// at the end of the merged pool.
	var sources []service.QuestionSource
	for _, path := range cfg.QuestionFiles {
		repo, err := repository.NewQuestionRepository(path)
		if err != nil {
			zl.Warn("skipping question file", zap.String("path", path), zap.Error(err))
			continue
		}
		sources = append(sources, repo)
	}

	if dsn, err := cfg.DB.DSN(); err == nil {
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			zl.Warn("database unavailable, continuing with file sources", zap.Error(err))
		} else {
			defer pool.Close()
			questionRepo := pgrepo.NewQuestionRepository(pool)
			sources = append(sources, service.SourceFunc("postgres", questionRepo.GetActive))
		}
	}

	agg := service.NewAggregator(zl, sources...)

	filter := service.NewFilterService(service.FilterOptions{
		ResultCacheSize:   cfg.Filter.ResultCacheSize,
		CategoryMemoSize:  cfg.Filter.CategoryMemoSize,
		SampleStride:      cfg.Filter.SampleStride,
		FallbackSampleCap: cfg.Filter.FallbackSampleCap,
	})
	dedup := service.NewDuplicateService(service.DedupOptions{
		MinSimilarityLength: cfg.Dedup.MinSimilarityLength,
		ContainmentRatio:    cfg.Dedup.ContainmentRatio,
	})

	poolFn := func(ctx context.Context) ([]entities.Question, error) {
		pool, _ := agg.LoadAll(ctx)
		return pool, nil
	}
	questionLoader := loader.New(poolFn, filter, zl, loader.Options{CacheTTL: cfg.Loader.CacheTTL})

	handler := httpapi.NewHandler(questionLoader, dedup, agg, zl)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zl.Error("server shutdown failed", zap.Error(err))
		}
	}()

	zl.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("server failed", zap.Error(err))
	}

	zl.Info("shutdown complete")
}
