package config

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, filepath.Join("./data", "BLS_4_0_Daten_2025_DE.csv"), cfg.BLSPath)
	assert.Equal(t, filepath.Join("./data", "recipe_database.csv"), cfg.RecipeDatabasePath)
	assert.Equal(t, 2, cfg.HouseholdSize)
	assert.Equal(t, 1000.0, cfg.MaxLactosePerRecipeMg)
	assert.Equal(t, 0.6, cfg.SuggestThreshold)
	assert.Equal(t, 0.75, cfg.ImportThreshold)
	assert.Equal(t, 60*time.Second, cfg.SolveTimeout())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/meals")
	t.Setenv("HOUSEHOLD_SIZE", "4")
	t.Setenv("MAX_LACTOSE_MG", "500")
	t.Setenv("BLS_PATH", "/tmp/bls.csv")

	cfg := Load()

	assert.Equal(t, "/tmp/meals", cfg.DataDir)
	assert.Equal(t, "/tmp/bls.csv", cfg.BLSPath)
	assert.Equal(t, filepath.Join("/tmp/meals", "recipe_export.csv"), cfg.RecipeExport)
	assert.Equal(t, 4, cfg.HouseholdSize)
	assert.Equal(t, 500.0, cfg.MaxLactosePerRecipeMg)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("HOUSEHOLD_SIZE", "two")
	t.Setenv("MAX_LACTOSE_MG", "much")

	cfg := Load()

	assert.Equal(t, 2, cfg.HouseholdSize)
	assert.Equal(t, 1000.0, cfg.MaxLactosePerRecipeMg)
}

func TestDailyGoals(t *testing.T) {
	goals := DailyGoals()

	assert.Equal(t, 2000.0, goals["calories"])
	assert.Equal(t, 55.0, goals["protein"])
	assert.Equal(t, 8.0, goals["iron"])
	assert.Len(t, goals, len(TrackedNutrients()))
}

func TestDailyGoals_EnvOverride(t *testing.T) {
	t.Setenv("DAILY_GOAL_PROTEIN", "80")

	assert.Equal(t, 80.0, DailyGoals()["protein"])
}

func TestWeeklyGoals(t *testing.T) {
	daily := DailyGoals()
	weekly := WeeklyGoals()

	for key, v := range daily {
		assert.Equal(t, v*7, weekly[key], key)
	}
}

func TestTrackedNutrients_GoalsComplete(t *testing.T) {
	goals := DailyGoals()
	for _, n := range TrackedNutrients() {
		assert.Contains(t, goals, n.GoalKey, n.Column)
		assert.NotEmpty(t, n.Code)
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "INFO", parseLogLevel("nonsense").String())
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf, "ERROR")

	logger.Info("hidden")
	logger.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
