// Package mapping manages the curated ingredient-to-food-table mappings
// kept in a CSV file alongside the recipe data.
package mapping

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Mapping links a normalized ingredient name to a food table entry
type Mapping struct {
	IngredientName string
	BLSEntryName   string
	Category       string
	Notes          string
}

var csvHeader = []string{"ingredient_name", "bls_entry_name", "category", "notes"}

// Store reads and writes the mapping CSV file
type Store struct {
	path string
}

// NewStore creates a store for the given CSV path.
// The file does not need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing CSV file path
func (s *Store) Path() string {
	return s.path
}

// Load reads all mappings. A missing file yields an empty map.
func (s *Store) Load() (map[string]Mapping, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Mapping{}, nil
		}
		return nil, fmt.Errorf("failed to open mappings file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings file: %w", err)
	}

	mappings := make(map[string]Mapping)
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && strings.EqualFold(rec[0], csvHeader[0]) {
			continue
		}
		if len(rec) < 2 {
			continue
		}
		m := Mapping{
			IngredientName: strings.ToLower(strings.TrimSpace(rec[0])),
			BLSEntryName:   strings.TrimSpace(rec[1]),
		}
		if len(rec) > 2 {
			m.Category = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 {
			m.Notes = strings.TrimSpace(rec[3])
		}
		if m.IngredientName == "" || m.BLSEntryName == "" {
			continue
		}
		mappings[m.IngredientName] = m
	}
	return mappings, nil
}

// Save writes all mappings back, sorted by ingredient name
func (s *Store) Save(mappings map[string]Mapping) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create mappings directory: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create mappings file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write mappings header: %w", err)
	}

	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		m := mappings[k]
		if err := w.Write([]string{m.IngredientName, m.BLSEntryName, m.Category, m.Notes}); err != nil {
			return fmt.Errorf("failed to write mapping row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush mappings file: %w", err)
	}
	return nil
}

// Upsert adds or replaces a single mapping and persists the file.
// It reports whether an existing entry was replaced.
func (s *Store) Upsert(m Mapping) (bool, error) {
	m.IngredientName = strings.ToLower(strings.TrimSpace(m.IngredientName))
	m.BLSEntryName = strings.TrimSpace(m.BLSEntryName)
	if m.IngredientName == "" {
		return false, fmt.Errorf("ingredient name must not be empty")
	}
	if m.BLSEntryName == "" {
		return false, fmt.Errorf("food table entry name must not be empty")
	}

	mappings, err := s.Load()
	if err != nil {
		return false, err
	}
	_, replaced := mappings[m.IngredientName]
	mappings[m.IngredientName] = m

	if err := s.Save(mappings); err != nil {
		return false, err
	}
	return replaced, nil
}

// List returns mappings sorted by ingredient name, optionally
// filtered by category (case-insensitive, empty means all)
func (s *Store) List(category string) ([]Mapping, error) {
	mappings, err := s.Load()
	if err != nil {
		return nil, err
	}

	out := make([]Mapping, 0, len(mappings))
	for _, m := range mappings {
		if category != "" && !strings.EqualFold(m.Category, category) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IngredientName < out[j].IngredientName })
	return out, nil
}
