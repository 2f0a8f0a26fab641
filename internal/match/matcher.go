// Package match resolves normalized ingredient names against the food
// composition table, first through curated mappings and then by fuzzy
// scoring for suggestion workflows.
package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mealweek/bls-meal-plan/internal/bls"
	"github.com/mealweek/bls-meal-plan/internal/mapping"
)

// Result is the outcome of matching one ingredient name
type Result struct {
	// Matched reports whether a food table entry was found
	Matched bool
	// MappingKey is the mapping key that triggered the match
	MappingKey string
	// Entry is the resolved food table entry, nil when unmatched
	Entry *bls.FoodEntry
}

// Matcher applies mapping rules in longest-key-first order so that a
// more specific key like "eigelb" wins over "ei"
type Matcher struct {
	store bls.Store
	rules []mapping.Mapping
}

// NewMatcher builds a matcher over the given mappings
func NewMatcher(store bls.Store, mappings map[string]Mapping) *Matcher {
	rules := make([]mapping.Mapping, 0, len(mappings))
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	// Sort by key first so equal lengths keep a deterministic order,
	// then stable-sort longest first
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		rules = append(rules, mappings[k])
	}
	return &Matcher{store: store, rules: rules}
}

// Mapping is re-exported for callers constructing matchers directly
type Mapping = mapping.Mapping

// Match resolves a normalized ingredient base name.
// The first rule whose key is a substring of the name wins; its target
// is then looked up in the food table. An unresolvable target or an
// unmapped name both yield an unmatched result, not an error.
func (m *Matcher) Match(ctx context.Context, baseName string) (Result, error) {
	name := strings.ToLower(strings.TrimSpace(baseName))
	if name == "" {
		return Result{}, nil
	}

	for _, rule := range m.rules {
		if !strings.Contains(name, rule.IngredientName) {
			continue
		}
		entry, err := m.store.FindByDesignation(ctx, rule.BLSEntryName)
		if err != nil {
			return Result{}, fmt.Errorf("failed to resolve %q: %w", rule.BLSEntryName, err)
		}
		if entry == nil {
			return Result{MappingKey: rule.IngredientName}, nil
		}
		return Result{Matched: true, MappingKey: rule.IngredientName, Entry: entry}, nil
	}
	return Result{}, nil
}
