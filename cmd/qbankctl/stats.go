package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aeroprep/questionbank/internal/config"
	"github.com/aeroprep/questionbank/internal/service"
)

var statsCmd = &cobra.Command{
	Use:   "stats [files...]",
	Short: "Show question pool breakdown by aircraft, category and difficulty",
	Run: func(cmd *cobra.Command, args []string) {
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

		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Sources:\n")
		for _, res := range results {
			if res.Err != nil {
				fmt.Printf("  %s: failed (%v)\n", res.Source, res.Err)
				continue
			}
			fmt.Printf("  %s: %d questions\n", res.Source, res.Count)
		}

		byAircraft := make(map[string]int)
		byCategory := make(map[string]int)
		byDifficulty := make(map[string]int)
		active := 0
		for _, q := range pool {
			byAircraft[q.AircraftType]++
			byCategory[q.Category]++
			byDifficulty[q.Difficulty]++
			if q.IsActive {
				active++
			}
		}

		fmt.Printf("\nTotal: %d questions (%d active)\n", len(pool), active)
		printBreakdown(cyan("By aircraft"), byAircraft)
		printBreakdown(cyan("By difficulty"), byDifficulty)
		printBreakdown(cyan("By category"), byCategory)
	},
}

func init() {
	statsCmd.Flags().Bool("database", false, "include the postgres question table as a source")
}

func printBreakdown(title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("\n%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-30s %d\n", k, counts[k])
	}
}
