package mapping

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealweek/bls-meal-plan/internal/bls"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "ingredient_mappings.csv"))
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := tempStore(t)

	mappings, err := s.Load()

	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := tempStore(t)

	err := s.Save(map[string]Mapping{
		"zwiebel": {IngredientName: "zwiebel", BLSEntryName: "Speisezwiebel roh", Category: "vegetable"},
		"ei":      {IngredientName: "ei", BLSEntryName: "Hühnervollei frisch", Notes: "whole egg"},
	})
	require.NoError(t, err)

	mappings, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, mappings, 2)
	assert.Equal(t, "Speisezwiebel roh", mappings["zwiebel"].BLSEntryName)
	assert.Equal(t, "whole egg", mappings["ei"].Notes)
}

func TestStore_SaveSortsRows(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Save(map[string]Mapping{
		"zwiebel": {IngredientName: "zwiebel", BLSEntryName: "Speisezwiebel roh"},
		"avocado": {IngredientName: "avocado", BLSEntryName: "Avocado frisch"},
	}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Less(t, indexOf(content, "avocado"), indexOf(content, "zwiebel"))
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestStore_Upsert(t *testing.T) {
	s := tempStore(t)

	replaced, err := s.Upsert(Mapping{IngredientName: "Zwiebel", BLSEntryName: "Speisezwiebel roh"})
	require.NoError(t, err)
	assert.False(t, replaced)

	// keys are lowercased
	replaced, err = s.Upsert(Mapping{IngredientName: "zwiebel", BLSEntryName: "Speisezwiebel gegart"})
	require.NoError(t, err)
	assert.True(t, replaced)

	mappings, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, mappings, 1)
	assert.Equal(t, "Speisezwiebel gegart", mappings["zwiebel"].BLSEntryName)
}

func TestStore_UpsertRejectsEmpty(t *testing.T) {
	s := tempStore(t)

	_, err := s.Upsert(Mapping{IngredientName: "", BLSEntryName: "x"})
	assert.Error(t, err)

	_, err = s.Upsert(Mapping{IngredientName: "x", BLSEntryName: "  "})
	assert.Error(t, err)
}

func TestStore_ListFiltersByCategory(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(map[string]Mapping{
		"zwiebel": {IngredientName: "zwiebel", BLSEntryName: "Speisezwiebel roh", Category: "vegetable"},
		"ei":      {IngredientName: "ei", BLSEntryName: "Hühnervollei frisch", Category: "dairy"},
		"tomate":  {IngredientName: "tomate", BLSEntryName: "Tomate roh", Category: "Vegetable"},
	}))

	all, err := s.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "ei", all[0].IngredientName)

	veg, err := s.List("vegetable")
	require.NoError(t, err)
	assert.Len(t, veg, 2)
}

func TestValidate(t *testing.T) {
	store := bls.NewMockStore()

	issues, err := Validate(context.Background(), store, map[string]Mapping{
		"zwiebel": {IngredientName: "zwiebel", BLSEntryName: "Speisezwiebel roh"},
		"drache":  {IngredientName: "drache", BLSEntryName: "Drachenfrucht roh"},
	})

	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "drache", issues[0].IngredientName)
	assert.Equal(t, "Drachenfrucht roh", issues[0].BLSEntryName)
}
