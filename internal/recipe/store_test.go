package recipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"(1.6K)", 1600},
		{"(234)", 234},
		{"(2,5K)", 2500},
		{"4.5", 4.5},
		{"812", 812},
		{"", 0},
		{"viele", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRating(tt.in), tt.in)
	}
}

func TestParseYield(t *testing.T) {
	tests := []struct {
		in           string
		servings     int
		portionBased bool
	}{
		{"4 Portionen", 4, true},
		{"2 Portionen ", 2, true},
		{"12 Stücke", 12, true},
		{"400 g", 1, false},
		{"250g", 1, false},
		{"6", 6, true},
		{"", 1, true},
		{"unbekannt", 1, true},
	}
	for _, tt := range tests {
		servings, portionBased := ParseYield(tt.in)
		assert.Equal(t, tt.servings, servings, tt.in)
		assert.Equal(t, tt.portionBased, portionBased, tt.in)
	}
}

func TestReadImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe_export.csv")
	content := `recipe_name,recipe_url,recipe_yield,rating,ingredients
Linsencurry,https://example.com/linsencurry,4 Portionen,(1.6K),"[""200 g rote Linsen"", ""1 Zwiebel""]"
Bananenbrot,https://example.com/bananenbrot,400 g,(234),"[""2 Bananen""]"
,,,,
Kaputt,https://example.com/kaputt,2 Portionen,12,not-json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := ReadImport(context.Background(), path, testLogger())

	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Linsencurry", records[0].Name)
	assert.Equal(t, 4, records[0].Servings)
	assert.False(t, records[0].WeightBased)
	assert.Equal(t, 1600.0, records[0].Rating)
	assert.Equal(t, []string{"200 g rote Linsen", "1 Zwiebel"}, records[0].Ingredients)

	assert.Equal(t, "Bananenbrot", records[1].Name)
	assert.True(t, records[1].WeightBased)
	assert.Equal(t, 1, records[1].Servings)
}

func TestReadImport_MissingFile(t *testing.T) {
	_, err := ReadImport(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), testLogger())

	assert.Error(t, err)
}

func TestDatabaseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe_database.csv")
	nutrientColumns := []string{"ENERCC Energie (Kilokalorien) [kcal/100g]", "FE Eisen [mg/100g]"}
	records := []Record{
		{
			Name:      "Linsencurry",
			URL:       "https://example.com/linsencurry",
			YieldText: "4 Portionen",
			Servings:  4,
			Rating:    1600,
			MatchRate: 50,
			Nutrients: map[string]float64{
				nutrientColumns[0]: 820.5,
				nutrientColumns[1]: 7.2,
			},
			Audit: []AuditEntry{
				{
					Original:   "200 g rote Linsen",
					ParsedName: "linsen",
					Quantity:   200,
					Matched:    true,
					BLSName:    "Linsen reif",
					WeightG:    200,
					NutrientContribution: map[string]float64{
						nutrientColumns[1]: 7.2,
					},
				},
				{Original: "1 Drachenfrucht", ParsedName: "drachenfrucht", Quantity: 1},
			},
		},
	}

	require.NoError(t, WriteDatabase(path, records, nutrientColumns))

	got, gotColumns, err := ReadDatabase(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, nutrientColumns, gotColumns)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, "Linsencurry", r.Name)
	assert.Equal(t, 4, r.Servings)
	assert.Equal(t, 1600.0, r.Rating)
	assert.Equal(t, 50.0, r.MatchRate)
	assert.Equal(t, 7.2, r.Nutrients[nutrientColumns[1]])
	require.Len(t, r.Audit, 2)
	assert.True(t, r.Audit[0].Matched)
	assert.Equal(t, "Linsen reif", r.Audit[0].BLSName)
	assert.False(t, r.Audit[1].Matched)
}

func TestReadDatabase_MalformedAuditTrail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe_database.csv")
	content := `recipe_name,recipe_url,recipe_yield,servings,rating,match_rate,FE Eisen [mg/100g],audit_trail
Suppe,https://example.com/suppe,2 Portionen,2,10,100,1.5,not-json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, _, err := ReadDatabase(path, testLogger())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Audit)
	assert.Equal(t, 1.5, records[0].Nutrients["FE Eisen [mg/100g]"])
}

func TestSortByName(t *testing.T) {
	records := []Record{{Name: "Zwiebelsuppe"}, {Name: "Auflauf"}}

	SortByName(records)

	assert.Equal(t, "Auflauf", records[0].Name)
}
