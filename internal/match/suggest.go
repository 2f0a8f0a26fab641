package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/mealweek/bls-meal-plan/internal/bls"
)

// Suggestion ranks one food table entry as a candidate mapping target
type Suggestion struct {
	IngredientName string  `json:"ingredient_name"`
	BLSEntryName   string  `json:"bls_entry_name"`
	Score          float64 `json:"score"`
}

// Ratio is the normalized edit-distance similarity of two strings,
// 1 for equal, 0 for fully dissimilar
func Ratio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// Score combines edit-distance similarity with word containment.
// Words of the ingredient name longer than two runes that appear as
// substrings of the candidate raise the score.
func Score(ingredient, candidate string) float64 {
	ingredient = strings.ToLower(ingredient)
	candidate = strings.ToLower(candidate)

	ratio := Ratio(ingredient, candidate)

	words := strings.Fields(ingredient)
	var considered, found int
	for _, w := range words {
		if len([]rune(w)) <= 2 {
			continue
		}
		considered++
		if strings.Contains(candidate, w) {
			found++
		}
	}
	wordScore := 0.0
	if considered > 0 {
		wordScore = float64(found) / float64(considered)
	}

	return 0.7*ratio + 0.3*wordScore
}

// BulkScore is the cheaper variant used when scanning the whole table:
// plain similarity with a flat bonus when either name contains the other
func BulkScore(ingredient, candidate string) float64 {
	ingredient = strings.ToLower(ingredient)
	candidate = strings.ToLower(candidate)

	score := Ratio(ingredient, candidate)
	if strings.Contains(candidate, ingredient) || strings.Contains(ingredient, candidate) {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}
	return score
}

// Suggest scores every food table entry against the ingredient name and
// returns up to three candidates at or above the threshold, best first
func Suggest(ctx context.Context, store bls.Store, ingredientName string, threshold float64) ([]Suggestion, error) {
	entries, err := store.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load food table entries: %w", err)
	}

	var out []Suggestion
	for _, e := range entries {
		score := Score(ingredientName, e.Name)
		if score < threshold {
			continue
		}
		out = append(out, Suggestion{
			IngredientName: ingredientName,
			BLSEntryName:   e.Name,
			Score:          score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > 3 {
		out = out[:3]
	}
	return out, nil
}
