package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mealweek/bls-meal-plan/internal/config"
	"github.com/mealweek/bls-meal-plan/internal/planner"
	"github.com/mealweek/bls-meal-plan/internal/recipe"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Select the weekly meal plan and write the report",
	Long: `Loads the processed recipe database, removes excluded recipes and
recipes over the lactose ceiling, and selects exactly 7 recipes
maximizing nutrient-goal coverage with rating and lactose tie-breaks.
An infeasible selection (fewer than 7 eligible recipes) aborts without
writing any output.`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger()
	cfg := config.Load()
	ctx := context.Background()
	start := time.Now()

	records, _, err := recipe.ReadDatabase(cfg.RecipeDatabasePath, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded recipe database", "recipes", len(records))

	excluded, err := planner.LoadExclusions(cfg.ExclusionsPath)
	if err != nil {
		return err
	}
	if len(excluded) > 0 {
		logger.Info("loaded exclusion list", "excluded", len(excluded))
	}

	optimizer := planner.NewOptimizer(cfg, logger)
	result, err := optimizer.Solve(records, excluded)
	if err != nil {
		logger.Error("weekly selection failed", "status", result.Status.String(), "error", err)
		return err
	}
	logger.Info("weekly selection solved",
		"status", result.Status.String(),
		"eligible", result.Eligible,
		"elapsed", result.Elapsed)

	if err := planner.WritePlanCSV(cfg.MealPlanPath, result); err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := planner.WriteReport(ctx, cfg.ReportPath, result, store, cfg); err != nil {
		return err
	}

	logger.Info("weekly plan written",
		"plan", cfg.MealPlanPath,
		"report", cfg.ReportPath,
		"duration", time.Since(start))
	return nil
}
