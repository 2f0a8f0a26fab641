package bls

import (
	"context"
	"log/slog"
	"os"
)

// FoodEntry is one row of the BLS food-composition database.
// Nutrients are per 100g, keyed by the full column header
// (e.g. "FE Eisen [mg/100g]"). Unparseable cells normalize to 0.
type FoodEntry struct {
	Name      string             `json:"name"`
	Nutrients map[string]float64 `json:"nutrients"`
}

// Store defines read access to the food-composition database
type Store interface {
	// Entries returns every food entry in database order
	Entries(ctx context.Context) ([]FoodEntry, error)
	// FindByDesignation returns the first entry whose designation contains
	// name (case-insensitive), or nil when none does
	FindByDesignation(ctx context.Context, name string) (*FoodEntry, error)
	// Search returns up to limit entries whose designation contains term
	// (case-insensitive), in database order
	Search(ctx context.Context, term string, limit int) ([]FoodEntry, error)
	// NutrientColumns returns the nutrient column headers in database order
	NutrientColumns(ctx context.Context) ([]string, error)
	TestConnection(ctx context.Context) error
	Close() error
}

// NewStore creates a food store over the BLS CSV.
// Uses the mock store if the BLS_STORE_MOCK environment variable is set.
func NewStore(csvPath string, logger *slog.Logger) (Store, error) {
	if os.Getenv("BLS_STORE_MOCK") == "true" {
		return NewMockStore(), nil
	}
	return NewEngine(csvPath, logger)
}
