// Package recipe ingests exported recipe records, aggregates nutrient
// totals per recipe, and persists the enriched recipe database.
package recipe

import (
	"regexp"
	"strconv"
	"strings"
)

// AuditEntry records how one ingredient line was processed
type AuditEntry struct {
	Original    string  `json:"original"`
	ParsedName  string  `json:"parsed_name"`
	Quantity    float64 `json:"quantity"`
	QuantityStr string  `json:"quantity_str"`
	Matched     bool    `json:"matched"`
	// BLSName and WeightG are set only when Matched is true
	BLSName string  `json:"bls_name,omitempty"`
	WeightG float64 `json:"weight_g,omitempty"`
	// NutrientContribution holds only positive amounts, rounded to
	// two decimals, keyed by the food table column header
	NutrientContribution map[string]float64 `json:"nutrient_contribution,omitempty"`
}

// Record is one recipe with its aggregated nutrient data
type Record struct {
	Name        string
	URL         string
	YieldText   string
	Servings    int
	WeightBased bool
	Rating      float64
	Ingredients []string
	// Nutrients sums matched contributions across the whole recipe,
	// keyed by food table column header
	Nutrients map[string]float64
	MatchRate float64
	Audit     []AuditEntry
}

// LactoseGrams returns the recipe's total lactose from the given column
func (r *Record) LactoseGrams(lactoseColumn string) float64 {
	return r.Nutrients[lactoseColumn]
}

var (
	ratingCountRe = regexp.MustCompile(`\(([\d.,]+)([Kk]?)\)`)
	yieldCountRe  = regexp.MustCompile(`(\d+)`)
	gramYieldRe   = regexp.MustCompile(`^\d+\s*g\b`)
)

// ParseRating converts a raw rating cell to a numeric popularity value.
// "(1.6K)" becomes 1600, plain numbers pass through, anything else is 0.
func ParseRating(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if m := ratingCountRe.FindStringSubmatch(raw); m != nil {
		num := strings.ReplaceAll(m[1], ",", ".")
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0
		}
		if m[2] != "" {
			v *= 1000
		}
		return v
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseYield interprets the free-text yield of a recipe.
// "4 Portionen" gives 4 portion-based servings, a gram amount like
// "400 g" marks the recipe weight-based with a single serving, and
// unparseable text defaults to one portion.
func ParseYield(raw string) (servings int, portionBased bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))

	if strings.Contains(lower, "portion") || strings.Contains(lower, "stück") {
		if m := yieldCountRe.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n, true
			}
		}
		return 1, true
	}

	if gramYieldRe.MatchString(lower) {
		return 1, false
	}

	if m := yieldCountRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	return 1, true
}
