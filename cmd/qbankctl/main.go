package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aeroprep/questionbank/internal/config"
	"github.com/aeroprep/questionbank/internal/infra/postgres"
	pgrepo "github.com/aeroprep/questionbank/internal/infra/postgres/repository"
	"github.com/aeroprep/questionbank/internal/repository"
	"github.com/aeroprep/questionbank/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "qbankctl",
	Short: "Administer the aviation question bank",
	Long: `qbankctl maintains the question bank behind the exam-prep API.

It aggregates the configured question sources (static JSON files and,
when DATABASE_URL is set, the postgres question table), detects
near-duplicate questions and reports pool statistics.`,
}

func main() {
	_ = godotenv.Load()

	rootCmd.AddCommand(dedupCmd)
	rootCmd.AddCommand(statsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildSources assembles the question sources for a command run: the
// given files (or the configured defaults when none are given), plus
// the database when requested. The returned cleanup closes the pool.
func buildSources(ctx context.Context, cfg *config.Config, files []string, useDB bool) ([]service.QuestionSource, func(), error) {
	if len(files) == 0 {
		files = cfg.QuestionFiles
	}

	var sources []service.QuestionSource
	for _, path := range files {
		repo, err := repository.NewQuestionRepository(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		sources = append(sources, repo)
	}

	cleanup := func() {}
	if useDB {
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, fmt.Errorf("--database requires DATABASE_URL")
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		cleanup = pool.Close
		questionRepo := pgrepo.NewQuestionRepository(pool)
		sources = append(sources, service.SourceFunc("postgres", questionRepo.GetActive))
	}

	return sources, cleanup, nil
}
