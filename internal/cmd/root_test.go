package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealweek/bls-meal-plan/internal/mapping"
	"github.com/mealweek/bls-meal-plan/internal/recipe"
)

// execute runs the root command with a fresh output buffer
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmdHelp(t *testing.T) {
	output, err := execute(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, output, "bls-meal-plan")
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "process")
	assert.Contains(t, output, "plan")
	assert.Contains(t, output, "mappings")
	assert.Contains(t, output, "suggest")
}

func TestMappingsAdd_ValidTarget(t *testing.T) {
	t.Setenv("BLS_STORE_MOCK", "true")
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)

	_, err := execute(t, "mappings", "add", "karotte", "Karotte roh")
	require.NoError(t, err)

	mappings, err := mapping.NewStore(filepath.Join(dataDir, "ingredient_mappings.csv")).Load()
	require.NoError(t, err)
	assert.Equal(t, "Karotte roh", mappings["karotte"].BLSEntryName)
}

func TestMappingsAdd_DanglingTargetRejected(t *testing.T) {
	t.Setenv("BLS_STORE_MOCK", "true")
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)

	_, err := execute(t, "mappings", "add", "drache", "Drachenfrucht roh")
	require.Error(t, err)

	mappings, err := mapping.NewStore(filepath.Join(dataDir, "ingredient_mappings.csv")).Load()
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestMappingsListAndValidate(t *testing.T) {
	t.Setenv("BLS_STORE_MOCK", "true")
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)

	_, err := execute(t, "mappings", "add", "zwiebel", "Speisezwiebel roh", "--category", "vegetable")
	require.NoError(t, err)

	output, err := execute(t, "mappings", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "zwiebel -> Speisezwiebel roh [vegetable]")
	assert.Contains(t, output, "1 mappings")

	output, err = execute(t, "mappings", "validate")
	require.NoError(t, err)
	assert.Contains(t, output, "1 of 1 mappings valid")
}

func TestSuggest_ReviewAndImport(t *testing.T) {
	t.Setenv("BLS_STORE_MOCK", "true")
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("IMPORT_THRESHOLD", "0.7")

	// recipe database with one unmatched ingredient
	dbPath := filepath.Join(dataDir, "recipe_database.csv")
	records := []recipe.Record{{
		Name:      "Karottensuppe",
		YieldText: "2 Portionen",
		Servings:  2,
		Audit: []recipe.AuditEntry{
			{Original: "200 Karotten", ParsedName: "karotte", Quantity: 200},
		},
	}}
	require.NoError(t, recipe.WriteDatabase(dbPath, records, []string{"FE Eisen [mg/100g]"}))

	_, err := execute(t, "suggest")
	require.NoError(t, err)

	suggestionsPath := filepath.Join(dataDir, "mapping_suggestions.csv")
	data, err := os.ReadFile(suggestionsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "karotte")
	assert.Contains(t, string(data), "Karotte roh")

	// approve the first-ranked candidate
	approved := approveFirstRank(string(data))
	require.NoError(t, os.WriteFile(suggestionsPath, []byte(approved), 0o644))

	_, err = execute(t, "suggest", "--import")
	require.NoError(t, err)

	mappings, err := mapping.NewStore(filepath.Join(dataDir, "ingredient_mappings.csv")).Load()
	require.NoError(t, err)
	assert.Equal(t, "Karotte roh", mappings["karotte"].BLSEntryName)
	assert.Equal(t, "auto-imported", mappings["karotte"].Category)
}

// approveFirstRank marks every rank-1 suggestion row with Y
func approveFirstRank(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i == 0 || line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) >= 6 && fields[2] == "1" {
			fields[len(fields)-1] = "Y"
			lines[i] = strings.Join(fields, ",")
		}
	}
	return strings.Join(lines, "\n")
}

func TestSuggest_SingleName(t *testing.T) {
	t.Setenv("BLS_STORE_MOCK", "true")
	t.Setenv("DATA_DIR", t.TempDir())

	output, err := execute(t, "suggest", "karotte")

	require.NoError(t, err)
	assert.Contains(t, output, "Karotte roh")
}
