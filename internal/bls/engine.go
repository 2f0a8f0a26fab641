package bls

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// DesignationColumn is the BLS column holding the canonical food name
const DesignationColumn = "Lebensmittelbezeichnung"

// Engine loads the BLS CSV through DuckDB and serves lookups from an
// in-memory snapshot (the database is immutable reference data).
type Engine struct {
	db      *sql.DB
	csvPath string
	log     *slog.Logger

	mu      sync.Mutex
	entries []FoodEntry
	columns []string
}

// Ensure Engine implements the Store interface
var _ Store = (*Engine)(nil)

// NewEngine creates a new BLS query engine
func NewEngine(csvPath string, logger *slog.Logger) (*Engine, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	return &Engine{
		db:      db,
		csvPath: csvPath,
		log:     logger,
	}, nil
}

// Close closes the database connection
func (e *Engine) Close() error {
	return e.db.Close()
}

// load reads the full CSV once and caches entries and nutrient columns
func (e *Engine) load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.entries != nil {
		return nil
	}

	start := time.Now()
	e.log.Debug("Loading BLS database", "path", e.csvPath)

	query := `SELECT * FROM read_csv(?, header=true, all_varchar=true)`
	rows, err := e.db.QueryContext(ctx, query, e.csvPath)
	if err != nil {
		e.log.Error("BLS CSV read failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("bls read failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("bls columns: %w", err)
	}

	nameIdx := -1
	var nutrientCols []string
	nutrientIdx := make([]int, 0, len(columns))
	for i, col := range columns {
		if col == DesignationColumn {
			nameIdx = i
		}
		// Nutrient columns carry a unit suffix in brackets
		if strings.Contains(col, "[") {
			nutrientCols = append(nutrientCols, col)
			nutrientIdx = append(nutrientIdx, i)
		}
	}
	if nameIdx < 0 {
		return fmt.Errorf("bls read failed: column %q not found", DesignationColumn)
	}

	values := make([]sql.NullString, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	var entries []FoodEntry
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			e.log.Error("Row scan failed", "error", err)
			continue
		}

		entry := FoodEntry{
			Name:      values[nameIdx].String,
			Nutrients: make(map[string]float64, len(nutrientCols)),
		}
		for j, idx := range nutrientIdx {
			entry.Nutrients[nutrientCols[j]] = parseAmount(values[idx])
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("bls rows error: %w", err)
	}

	e.entries = entries
	e.columns = nutrientCols
	e.log.Info("BLS database loaded", "foods", len(entries), "nutrients", len(nutrientCols), "duration", time.Since(start))
	return nil
}

// Entries returns every food entry in database order
func (e *Engine) Entries(ctx context.Context) ([]FoodEntry, error) {
	if err := e.load(ctx); err != nil {
		return nil, err
	}
	return e.entries, nil
}

// FindByDesignation returns the first entry whose designation contains name
func (e *Engine) FindByDesignation(ctx context.Context, name string) (*FoodEntry, error) {
	if err := e.load(ctx); err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	for i := range e.entries {
		if strings.Contains(strings.ToLower(e.entries[i].Name), needle) {
			return &e.entries[i], nil
		}
	}
	return nil, nil
}

// Search returns up to limit entries whose designation contains term
func (e *Engine) Search(ctx context.Context, term string, limit int) ([]FoodEntry, error) {
	if err := e.load(ctx); err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	var results []FoodEntry
	for i := range e.entries {
		if strings.Contains(strings.ToLower(e.entries[i].Name), needle) {
			results = append(results, e.entries[i])
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// NutrientColumns returns the nutrient column headers in database order
func (e *Engine) NutrientColumns(ctx context.Context) ([]string, error) {
	if err := e.load(ctx); err != nil {
		return nil, err
	}
	return e.columns, nil
}

// TestConnection verifies the CSV is readable through DuckDB
func (e *Engine) TestConnection(ctx context.Context) error {
	start := time.Now()
	e.log.Debug("Testing DuckDB connection and BLS file")

	query := `SELECT COUNT(*) FROM read_csv(?, header=true, all_varchar=true)`
	var count int64
	if err := e.db.QueryRowContext(ctx, query, e.csvPath).Scan(&count); err != nil {
		e.log.Error("Connection test failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("connection test failed: %w", err)
	}

	e.log.Info("Connection test successful", "total_foods", count, "duration", time.Since(start))
	return nil
}

// parseAmount normalizes a nutrient cell to a non-negative float.
// German exports sometimes use a decimal comma; anything unparseable is 0.
func parseAmount(v sql.NullString) float64 {
	if !v.Valid {
		return 0
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0
		}
	}
	if f < 0 {
		return 0
	}
	return f
}
