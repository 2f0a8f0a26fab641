package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mealweek/bls-meal-plan/internal/config"
	"github.com/mealweek/bls-meal-plan/internal/mapping"
	"github.com/mealweek/bls-meal-plan/internal/match"
	"github.com/mealweek/bls-meal-plan/internal/recipe"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Match all recipe ingredients and rebuild the recipe database",
	Long: `Reads the raw recipe export, parses and matches every ingredient line
through the curated mapping table, aggregates nutrient totals per
recipe, and fully rewrites the recipe database snapshot. Totals are
always recomputed from scratch so they reflect the current mapping
table, never stale increments.`,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger()
	cfg := config.Load()
	ctx := context.Background()
	start := time.Now()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	mappings, err := mapping.NewStore(cfg.MappingsPath).Load()
	if err != nil {
		return err
	}
	logger.Info("loaded mapping table", "mappings", len(mappings))

	records, err := recipe.ReadImport(ctx, cfg.RecipeExport, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded recipe export", "recipes", len(records))

	matcher := match.NewMatcher(store, mappings)
	aggregator := recipe.NewAggregator(matcher, logger)

	var matchRateSum float64
	for i := range records {
		totals, audit, rate, err := aggregator.Aggregate(ctx, records[i].Ingredients)
		if err != nil {
			return err
		}
		records[i].Nutrients = totals
		records[i].Audit = audit
		records[i].MatchRate = rate
		matchRateSum += rate
	}

	nutrientColumns, err := store.NutrientColumns(ctx)
	if err != nil {
		return err
	}

	recipe.SortByName(records)
	if err := recipe.WriteDatabase(cfg.RecipeDatabasePath, records, nutrientColumns); err != nil {
		return err
	}

	avgRate := 0.0
	if len(records) > 0 {
		avgRate = matchRateSum / float64(len(records))
	}
	logger.Info("recipe database rebuilt",
		"recipes", len(records),
		"avg_match_rate", avgRate,
		"output", cfg.RecipeDatabasePath,
		"duration", time.Since(start))
	return nil
}
