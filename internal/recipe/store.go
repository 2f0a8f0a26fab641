package recipe

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// fixedColumns lead every recipe database row, followed by one column
// per tracked nutrient header and the serialized audit trail
var fixedColumns = []string{"recipe_name", "recipe_url", "recipe_yield", "servings", "rating", "match_rate"}

const auditColumn = "audit_trail"

// ReadImport loads the raw recipe export produced by the scraper.
// Expected columns: recipe_name, recipe_url, recipe_yield, rating,
// ingredients (a JSON array of raw ingredient lines).
func ReadImport(ctx context.Context, path string, logger *slog.Logger) ([]Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("recipe export not found at %s: %w", path, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open query engine: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT recipe_name, recipe_url, recipe_yield, rating, ingredients
		 FROM read_csv(?, header=true, all_varchar=true)`, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe export: %w", err)
	}
	defer rows.Close()

	var records []Record
	skipped := 0
	for rows.Next() {
		var name, url, yield, rating, ingredients sql.NullString
		if err := rows.Scan(&name, &url, &yield, &rating, &ingredients); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		if strings.TrimSpace(name.String) == "" {
			skipped++
			continue
		}

		var lines []string
		if ingredients.Valid && strings.TrimSpace(ingredients.String) != "" {
			if err := json.Unmarshal([]byte(ingredients.String), &lines); err != nil {
				logger.Warn("skipping malformed ingredient list",
					"recipe", name.String, "error", err)
				skipped++
				continue
			}
		}

		servings, portionBased := ParseYield(yield.String)
		records = append(records, Record{
			Name:        name.String,
			URL:         url.String,
			YieldText:   yield.String,
			Servings:    servings,
			WeightBased: !portionBased,
			Rating:      ParseRating(rating.String),
			Ingredients: lines,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe export: %w", err)
	}
	if skipped > 0 {
		logger.Info("skipped recipe rows", "count", skipped)
	}
	return records, nil
}

// WriteDatabase persists the enriched recipe database, fully
// overwriting any previous snapshot
func WriteDatabase(path string, records []Record, nutrientColumns []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create recipe database: %w", err)
	}
	defer f.Close()

	header := append(append([]string{}, fixedColumns...), nutrientColumns...)
	header = append(header, auditColumn)

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write recipe database header: %w", err)
	}

	for _, r := range records {
		auditJSON, err := json.Marshal(r.Audit)
		if err != nil {
			return fmt.Errorf("failed to serialize audit trail for %q: %w", r.Name, err)
		}
		row := []string{
			r.Name,
			r.URL,
			r.YieldText,
			strconv.Itoa(r.Servings),
			formatFloat(r.Rating),
			formatFloat(r.MatchRate),
		}
		for _, col := range nutrientColumns {
			row = append(row, formatFloat(r.Nutrients[col]))
		}
		row = append(row, string(auditJSON))
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write recipe row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush recipe database: %w", err)
	}
	return nil
}

// ReadDatabase loads a previously written recipe database snapshot.
// Malformed audit trails are logged and replaced with an empty trail.
func ReadDatabase(path string, logger *slog.Logger) ([]Record, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("recipe database not found at %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read recipe database: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	header := rows[0]
	if len(header) < len(fixedColumns)+1 {
		return nil, nil, fmt.Errorf("recipe database header has %d columns, expected at least %d", len(header), len(fixedColumns)+1)
	}
	nutrientColumns := header[len(fixedColumns) : len(header)-1]

	var records []Record
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			logger.Warn("skipping malformed recipe row", "columns", len(row))
			continue
		}
		rec := Record{
			Name:      row[0],
			URL:       row[1],
			YieldText: row[2],
			Nutrients: make(map[string]float64, len(nutrientColumns)),
		}
		rec.Servings, _ = strconv.Atoi(row[3])
		if rec.Servings <= 0 {
			rec.Servings = 1
		}
		_, portionBased := ParseYield(rec.YieldText)
		rec.WeightBased = !portionBased
		rec.Rating = parseCell(row[4])
		rec.MatchRate = parseCell(row[5])
		for i, col := range nutrientColumns {
			rec.Nutrients[col] = parseCell(row[len(fixedColumns)+i])
		}
		auditJSON := row[len(header)-1]
		if strings.TrimSpace(auditJSON) != "" {
			if err := json.Unmarshal([]byte(auditJSON), &rec.Audit); err != nil {
				logger.Warn("discarding malformed audit trail", "recipe", rec.Name, "error", err)
				rec.Audit = nil
			}
		}
		records = append(records, rec)
	}
	return records, nutrientColumns, nil
}

// SortByName orders records for stable snapshots
func SortByName(records []Record) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Name < records[j].Name })
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseCell(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
