package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the meal planner CLI
type Config struct {
	// Data directory (all flat files live here)
	DataDir string

	// Input files
	BLSPath        string
	RecipeExport   string
	ExclusionsPath string

	// Owned snapshots
	RecipeDatabasePath string
	MappingsPath       string
	SuggestionsPath    string

	// Plan outputs
	MealPlanPath string
	ReportPath   string

	// Household and constraints
	HouseholdSize         int
	MaxLactosePerRecipeMg float64

	// Suggestion tuning
	SuggestThreshold float64
	SuggestLimit     int
	ImportThreshold  float64

	// Optimizer time budget (seconds)
	SolveTimeoutSeconds int
}

// Load reads configuration from environment variables
func Load() *Config {
	dataDir := getEnv("DATA_DIR", "./data")

	return &Config{
		DataDir:               dataDir,
		BLSPath:               getEnv("BLS_PATH", filepath.Join(dataDir, "BLS_4_0_Daten_2025_DE.csv")),
		RecipeExport:          getEnv("RECIPE_EXPORT_PATH", filepath.Join(dataDir, "recipe_export.csv")),
		ExclusionsPath:        getEnv("EXCLUSIONS_PATH", filepath.Join(dataDir, "excluded_recipes.txt")),
		RecipeDatabasePath:    getEnv("RECIPE_DATABASE_PATH", filepath.Join(dataDir, "recipe_database.csv")),
		MappingsPath:          getEnv("MAPPINGS_PATH", filepath.Join(dataDir, "ingredient_mappings.csv")),
		SuggestionsPath:       getEnv("SUGGESTIONS_PATH", filepath.Join(dataDir, "mapping_suggestions.csv")),
		MealPlanPath:          getEnv("MEAL_PLAN_PATH", filepath.Join(dataDir, "meal_plan.csv")),
		ReportPath:            getEnv("REPORT_PATH", filepath.Join(dataDir, "meal_plan_report.txt")),
		HouseholdSize:         getEnvInt("HOUSEHOLD_SIZE", 2),
		MaxLactosePerRecipeMg: getEnvFloat("MAX_LACTOSE_MG", 1000),
		SuggestThreshold:      getEnvFloat("SUGGEST_THRESHOLD", 0.6),
		SuggestLimit:          getEnvInt("SUGGEST_LIMIT", 100),
		ImportThreshold:       getEnvFloat("IMPORT_THRESHOLD", 0.75),
		SolveTimeoutSeconds:   getEnvInt("SOLVE_TIMEOUT_SECONDS", 60),
	}
}

// SolveTimeout returns the optimizer time budget as a duration
func (c *Config) SolveTimeout() time.Duration {
	return time.Duration(c.SolveTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
