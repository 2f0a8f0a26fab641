package recipe

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealweek/bls-meal-plan/internal/bls"
	"github.com/mealweek/bls-meal-plan/internal/match"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAggregator() *Aggregator {
	mappings := map[string]match.Mapping{
		"karotte": {IngredientName: "karotte", BLSEntryName: "Karotte roh"},
		"zwiebel": {IngredientName: "zwiebel", BLSEntryName: "Speisezwiebel roh"},
	}
	matcher := match.NewMatcher(bls.NewMockStore(), mappings)
	return NewAggregator(matcher, testLogger())
}

func TestAggregate_IronContribution(t *testing.T) {
	a := testAggregator()

	totals, audit, rate, err := a.Aggregate(context.Background(), []string{"200 Karotten"})

	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.True(t, audit[0].Matched)
	assert.Equal(t, "Karotte roh", audit[0].BLSName)
	// quantity 200 is above the grams threshold
	assert.Equal(t, 200.0, audit[0].WeightG)
	assert.InDelta(t, 0.8, totals["FE Eisen [mg/100g]"], 0.001)
	assert.Equal(t, 100.0, rate)
}

func TestAggregate_UnmatchedContributesNothing(t *testing.T) {
	a := testAggregator()

	totals, audit, rate, err := a.Aggregate(context.Background(), []string{
		"200 Karotten",
		"1 Drachenfrucht",
	})

	require.NoError(t, err)
	require.Len(t, audit, 2)
	assert.False(t, audit[1].Matched)
	assert.Empty(t, audit[1].BLSName)
	assert.Empty(t, audit[1].NutrientContribution)
	assert.InDelta(t, 0.8, totals["FE Eisen [mg/100g]"], 0.001)
	assert.Equal(t, 50.0, rate)
}

func TestAggregate_Additivity(t *testing.T) {
	a := testAggregator()

	totals, audit, _, err := a.Aggregate(context.Background(), []string{
		"200 Karotten",
		"100 g Karotten",
	})

	require.NoError(t, err)
	sum := 0.0
	for _, e := range audit {
		sum += e.NutrientContribution["FE Eisen [mg/100g]"]
	}
	assert.InDelta(t, totals["FE Eisen [mg/100g]"], sum, 0.01)
}

func TestAggregate_Empty(t *testing.T) {
	a := testAggregator()

	totals, audit, rate, err := a.Aggregate(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, totals)
	assert.Empty(t, audit)
	assert.Equal(t, 0.0, rate)
}
