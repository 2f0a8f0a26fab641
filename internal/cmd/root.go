// Package cmd wires the meal planner subcommands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mealweek/bls-meal-plan/internal/bls"
	"github.com/mealweek/bls-meal-plan/internal/config"
	"github.com/mealweek/bls-meal-plan/internal/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "bls-meal-plan",
	Short:   "Recipe nutrition matching and weekly meal planning on the BLS food table",
	Version: version.String(),
	Long: `bls-meal-plan matches German recipe ingredients against the BLS
food-composition database, aggregates per-recipe nutrient totals, and
selects a week of recipes against weekly nutrient goals and a per-recipe
lactose ceiling.

Typical workflow:

1. process: parse the raw recipe export, match every ingredient through
   the curated mapping table, and write the enriched recipe database
   with nutrient totals and a per-ingredient audit trail.

2. mappings: curate the ingredient mapping table. Adding a mapping
   validates its target against the live BLS table so the table never
   holds a dangling reference.

3. suggest: score unmatched ingredients against the whole BLS table and
   write ranked mapping suggestions for review; --import commits
   high-confidence first-ranked suggestions.

4. plan: select exactly 7 recipes maximizing nutrient-goal coverage,
   then rating, then minimal lactose, and write the weekly plan and a
   text report.

All paths and tuning knobs come from environment variables (DATA_DIR,
BLS_PATH, HOUSEHOLD_SIZE, MAX_LACTOSE_MG, ...); see the configuration
defaults for the full list.`,
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(mappingsCmd)
	rootCmd.AddCommand(suggestCmd)
}

// openStore creates the BLS store and verifies it is usable
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (bls.Store, error) {
	store, err := bls.NewStore(cfg.BLSPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open BLS table: %w", err)
	}
	if err := store.TestConnection(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("BLS table is not usable: %w", err)
	}
	return store, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// Run is the main entry point for the CLI application
func Run() error {
	return Execute()
}
