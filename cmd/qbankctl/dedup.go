package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/aeroprep/questionbank/internal/config"
	"github.com/aeroprep/questionbank/internal/domain/entities"
	"github.com/aeroprep/questionbank/internal/infra/postgres"
	pgrepo "github.com/aeroprep/questionbank/internal/infra/postgres/repository"
	"github.com/aeroprep/questionbank/internal/service"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup [files...]",
	Short: "Detect and remove near-duplicate questions",
	Long: `Aggregate the question sources, group near-duplicate questions by
normalized text, and report each group with its chosen representative.

Examples:
  # Report duplicates across the configured question files
  qbankctl dedup

  # Report duplicates across specific files
  qbankctl dedup bank-a320.json bank-b737.json

  # Write the deduplicated pool to a file
  qbankctl dedup --apply --out clean.json

  # Replace the postgres question table with the deduplicated pool
  qbankctl dedup --database --apply`,
	Run: func(cmd *cobra.Command, args []string) {
		apply, _ := cmd.Flags().GetBool("apply")
		outPath, _ := cmd.Flags().GetString("out")
		useDB, _ := cmd.Flags().GetBool("database")

		ctx := context.Background()

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		sources, cleanup, err := buildSources(ctx, cfg, args, useDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		agg := service.NewAggregator(nil, sources...)
		pool, results := agg.LoadAll(ctx)

		yellow := color.New(color.FgYellow).SprintFunc()
		for _, res := range results {
			if res.Err != nil {
				fmt.Printf("%s source %s failed: %v\n", yellow("⚠"), res.Source, res.Err)
			}
		}

		dedupSvc := service.NewDuplicateService(service.DedupOptions{
			MinSimilarityLength: cfg.Dedup.MinSimilarityLength,
			ContainmentRatio:    cfg.Dedup.ContainmentRatio,
		})
		result := dedupSvc.RemoveDuplicates(pool)

		printAnalysis(result.Analysis)

		if !apply {
			return
		}

		if useDB {
			if err := replaceDatabasePool(ctx, cfg, result.CleanPool); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Replaced database pool with %d questions\n", len(result.CleanPool))
			return
		}

		if err := writeCleanPool(outPath, result.CleanPool); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d questions to %s\n", len(result.CleanPool), outPath)
	},
}

func init() {
	dedupCmd.Flags().Bool("apply", false, "remove the duplicates instead of only reporting them")
	dedupCmd.Flags().String("out", "questions-clean.json", "output file for the deduplicated pool")
	dedupCmd.Flags().Bool("database", false, "include the postgres question table as a source (and as the apply target)")
}

func printAnalysis(analysis entities.DuplicateAnalysis) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if analysis.DuplicateCount == 0 {
		fmt.Printf("%s No duplicates found (%d questions)\n", green("✓"), analysis.TotalCount)
		return
	}

	fmt.Printf("Scanned %d questions: %d unique, %d duplicates in %d groups\n\n",
		analysis.TotalCount, analysis.UniqueCount, analysis.DuplicateCount, len(analysis.Groups))

	for _, g := range analysis.Groups {
		fmt.Printf("%s %s\n", cyan(g.Representative.ID), g.Representative.Question)
		for _, d := range g.Duplicates {
			fmt.Printf("  drops %s: %s\n", d.ID, d.Question)
		}
	}
}

func replaceDatabasePool(ctx context.Context, cfg *config.Config, clean []entities.Question) error {
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	transactor := postgres.NewTransactor(pool)
	return transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := pgrepo.NewQuestionRepository(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		return repo.InsertMany(ctx, clean)
	})
}

func writeCleanPool(path string, clean []entities.Question) error {
	wrapper := struct {
		Questions []entities.Question `json:"questions"`
	}{Questions: clean}

	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal clean pool: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
