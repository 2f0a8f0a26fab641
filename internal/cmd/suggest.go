package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mealweek/bls-meal-plan/internal/bls"
	"github.com/mealweek/bls-meal-plan/internal/config"
	"github.com/mealweek/bls-meal-plan/internal/mapping"
	"github.com/mealweek/bls-meal-plan/internal/match"
	"github.com/mealweek/bls-meal-plan/internal/recipe"
)

var suggestImport bool

var suggestCmd = &cobra.Command{
	Use:   "suggest [ingredient-name]",
	Short: "Propose BLS mapping candidates for unmatched ingredients",
	Long: `Without arguments, collects every unmatched ingredient from the recipe
database audit trails, deduplicates them with frequency counts, scores
each against the whole BLS table, and writes ranked suggestions with an
empty approve column for human review. With an ingredient name, prints
candidates for that single name.

Suggestions are advisory. Review the suggestion file, mark accepted
rows with Y in the approve column, then run suggest --import: only
approved first-ranked candidates at or above the import threshold are
committed, and each one is validated against the BLS table like a
manual add.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestImport, "import", false, "Commit approved first-ranked suggestions to the mapping table")
}

var suggestionHeader = []string{"ingredient_name", "frequency", "rank", "bls_entry_name", "score", "approve"}

// suggestionRow is one reviewable line of the suggestion CSV
type suggestionRow struct {
	IngredientName string
	Frequency      int
	Rank           int
	BLSEntryName   string
	Score          float64
	Approve        string
}

func runSuggest(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger()
	cfg := config.Load()
	ctx := context.Background()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		suggestions, err := match.Suggest(ctx, store, args[0], cfg.SuggestThreshold)
		if err != nil {
			return err
		}
		for _, s := range suggestions {
			cmd.Printf("%.3f  %s\n", s.Score, s.BLSEntryName)
		}
		if len(suggestions) == 0 {
			cmd.Println("no candidates above threshold")
		}
		return nil
	}

	if suggestImport {
		// Importing re-reads the reviewed file; regenerating here
		// would wipe the approve column
		return importSuggestions(ctx, cfg, store, logger)
	}

	counts, err := unmatchedIngredients(cfg, logger)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	// Most frequent first so review starts with the highest impact
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > cfg.SuggestLimit {
		names = names[:cfg.SuggestLimit]
	}
	logger.Info("scoring unmatched ingredients",
		"ingredients", len(names), "threshold", cfg.SuggestThreshold)

	var rows []suggestionRow
	for _, name := range names {
		suggestions, err := match.Suggest(ctx, store, name, cfg.SuggestThreshold)
		if err != nil {
			return err
		}
		for rank, s := range suggestions {
			rows = append(rows, suggestionRow{
				IngredientName: s.IngredientName,
				Frequency:      counts[name],
				Rank:           rank + 1,
				BLSEntryName:   s.BLSEntryName,
				Score:          s.Score,
			})
		}
	}

	if err := writeSuggestions(cfg.SuggestionsPath, rows); err != nil {
		return err
	}
	logger.Info("suggestions written for review",
		"candidates", len(rows), "output", cfg.SuggestionsPath)
	return nil
}

// unmatchedIngredients counts distinct unmatched parsed names across
// the recipe database audit trails
func unmatchedIngredients(cfg *config.Config, logger *slog.Logger) (map[string]int, error) {
	records, _, err := recipe.ReadDatabase(cfg.RecipeDatabasePath, logger)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, r := range records {
		for _, a := range r.Audit {
			if a.Matched || a.ParsedName == "" {
				continue
			}
			counts[a.ParsedName]++
		}
	}
	return counts, nil
}

// writeSuggestions fully rewrites the suggestion CSV with a blank
// approve column for review
func writeSuggestions(path string, rows []suggestionRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create suggestions directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create suggestions file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(suggestionHeader); err != nil {
		return fmt.Errorf("failed to write suggestions header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.IngredientName,
			strconv.Itoa(r.Frequency),
			strconv.Itoa(r.Rank),
			r.BLSEntryName,
			strconv.FormatFloat(r.Score, 'f', 3, 64),
			r.Approve,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write suggestion row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush suggestions file: %w", err)
	}
	return nil
}

// readSuggestions loads the reviewed suggestion CSV
func readSuggestions(path string) ([]suggestionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("suggestions file not found at %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(suggestionHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions file: %w", err)
	}

	var rows []suggestionRow
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[0], suggestionHeader[0]) {
			continue
		}
		frequency, _ := strconv.Atoi(rec[1])
		rank, _ := strconv.Atoi(rec[2])
		score, _ := strconv.ParseFloat(rec[4], 64)
		rows = append(rows, suggestionRow{
			IngredientName: rec[0],
			Frequency:      frequency,
			Rank:           rank,
			BLSEntryName:   rec[3],
			Score:          score,
			Approve:        strings.TrimSpace(rec[5]),
		})
	}
	return rows, nil
}

// importSuggestions commits reviewed suggestions: approve marked Y,
// first-ranked, at or above the import threshold. Each commit
// revalidates against the BLS table.
func importSuggestions(ctx context.Context, cfg *config.Config, store bls.Store, logger *slog.Logger) error {
	rows, err := readSuggestions(cfg.SuggestionsPath)
	if err != nil {
		return err
	}

	mappingStore := mapping.NewStore(cfg.MappingsPath)
	imported, skipped := 0, 0
	for _, r := range rows {
		if !strings.EqualFold(r.Approve, "y") && !strings.EqualFold(r.Approve, "yes") {
			continue
		}
		if r.Rank != 1 || r.Score < cfg.ImportThreshold {
			logger.Warn("skipping approved suggestion below import bar",
				"ingredient", r.IngredientName, "rank", r.Rank, "score", r.Score)
			skipped++
			continue
		}
		entry, err := store.FindByDesignation(ctx, r.BLSEntryName)
		if err != nil {
			return err
		}
		if entry == nil {
			logger.Warn("skipping suggestion with dangling target",
				"ingredient", r.IngredientName, "bls_entry", r.BLSEntryName)
			skipped++
			continue
		}
		if _, err := mappingStore.Upsert(mapping.Mapping{
			IngredientName: r.IngredientName,
			BLSEntryName:   r.BLSEntryName,
			Category:       "auto-imported",
			Notes:          fmt.Sprintf("score %.3f", r.Score),
		}); err != nil {
			return err
		}
		imported++
	}

	logger.Info("suggestion import finished",
		"imported", imported, "skipped", skipped, "threshold", cfg.ImportThreshold)
	return nil
}
