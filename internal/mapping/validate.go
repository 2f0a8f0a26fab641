package mapping

import (
	"context"
	"fmt"
	"sort"

	"github.com/mealweek/bls-meal-plan/internal/bls"
)

// ValidationIssue describes one mapping whose target entry could not
// be resolved in the food composition table
type ValidationIssue struct {
	IngredientName string
	BLSEntryName   string
	Reason         string
}

// Validate checks every mapping target against the food table.
// It returns the issues found; an empty slice means all targets resolve.
func Validate(ctx context.Context, store bls.Store, mappings map[string]Mapping) ([]ValidationIssue, error) {
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var issues []ValidationIssue
	for _, k := range keys {
		m := mappings[k]
		entry, err := store.FindByDesignation(ctx, m.BLSEntryName)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %q: %w", m.BLSEntryName, err)
		}
		if entry == nil {
			issues = append(issues, ValidationIssue{
				IngredientName: m.IngredientName,
				BLSEntryName:   m.BLSEntryName,
				Reason:         "no food table entry matches",
			})
		}
	}
	return issues, nil
}
