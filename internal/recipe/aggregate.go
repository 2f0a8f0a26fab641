package recipe

import (
	"context"
	"log/slog"
	"math"

	"github.com/mealweek/bls-meal-plan/internal/ingredient"
	"github.com/mealweek/bls-meal-plan/internal/match"
)

// Aggregator turns raw ingredient lines into per-recipe nutrient totals
type Aggregator struct {
	matcher *match.Matcher
	log     *slog.Logger
}

// NewAggregator creates an aggregator over a prepared matcher
func NewAggregator(matcher *match.Matcher, logger *slog.Logger) *Aggregator {
	return &Aggregator{matcher: matcher, log: logger}
}

// Aggregate processes every ingredient line of a recipe.
// Unmatched lines contribute nothing and never abort the recipe; they
// appear in the audit trail with Matched false and lower the match rate.
func (a *Aggregator) Aggregate(ctx context.Context, ingredients []string) (totals map[string]float64, audit []AuditEntry, matchRate float64, err error) {
	totals = make(map[string]float64)
	audit = make([]AuditEntry, 0, len(ingredients))
	matched := 0

	for _, line := range ingredients {
		parsed := ingredient.Parse(line)
		entry := AuditEntry{
			Original:    line,
			ParsedName:  parsed.BaseName,
			Quantity:    parsed.Quantity,
			QuantityStr: parsed.QuantityRaw,
		}

		res, merr := a.matcher.Match(ctx, parsed.BaseName)
		if merr != nil {
			return nil, nil, 0, merr
		}
		if !res.Matched {
			a.log.Debug("ingredient unmatched", "ingredient", parsed.BaseName)
			audit = append(audit, entry)
			continue
		}

		weight := ingredient.EstimateWeight(parsed.BaseName, parsed.Quantity, parsed.HadQuantity)
		entry.Matched = true
		entry.BLSName = res.Entry.Name
		entry.WeightG = weight
		entry.NutrientContribution = make(map[string]float64)
		for column, per100g := range res.Entry.Nutrients {
			amount := per100g * weight / 100
			if amount <= 0 {
				continue
			}
			totals[column] += amount
			entry.NutrientContribution[column] = math.Round(amount*100) / 100
		}
		matched++
		audit = append(audit, entry)
	}

	if len(ingredients) > 0 {
		matchRate = float64(matched) / float64(len(ingredients)) * 100
	}
	return totals, audit, matchRate, nil
}
