package bls

import (
	"context"
	"strings"
)

// MockStore is an in-memory implementation for testing
type MockStore struct {
	entries []FoodEntry
	columns []string
	err     error
}

// Ensure MockStore implements the Store interface
var _ Store = (*MockStore)(nil)

// NewMockStore creates a mock food store with a small German sample set
func NewMockStore() *MockStore {
	columns := []string{
		"ENERCC Energie (Kilokalorien) [kcal/100g]",
		"PROT625 Protein (Nx6,25) [g/100g]",
		"FE Eisen [mg/100g]",
		"CA Calcium [mg/100g]",
		"LACS Lactose [g/100g]",
	}
	return &MockStore{
		columns: columns,
		entries: []FoodEntry{
			{
				Name: "Karotte roh",
				Nutrients: map[string]float64{
					columns[0]: 26,
					columns[1]: 0.8,
					columns[2]: 0.4,
					columns[3]: 35,
					columns[4]: 0,
				},
			},
			{
				Name: "Hühnervollei frisch",
				Nutrients: map[string]float64{
					columns[0]: 137,
					columns[1]: 11.9,
					columns[2]: 1.8,
					columns[3]: 54,
					columns[4]: 0,
				},
			},
			{
				Name: "Hühnereigelb frisch",
				Nutrients: map[string]float64{
					columns[0]: 348,
					columns[1]: 16.1,
					columns[2]: 6.1,
					columns[3]: 137,
					columns[4]: 0,
				},
			},
			{
				Name: "Vollmilch frisch, 3,5 % Fett, pasteurisiert",
				Nutrients: map[string]float64{
					columns[0]: 65,
					columns[1]: 3.3,
					columns[2]: 0.1,
					columns[3]: 120,
					columns[4]: 4.7,
				},
			},
			{
				Name: "Speisezwiebel roh",
				Nutrients: map[string]float64{
					columns[0]: 28,
					columns[1]: 1.2,
					columns[2]: 0.2,
					columns[3]: 22,
					columns[4]: 0,
				},
			},
		},
	}
}

// SetEntries replaces the mock dataset
func (m *MockStore) SetEntries(entries []FoodEntry) {
	m.entries = entries
}

// SetColumns replaces the mock nutrient column set
func (m *MockStore) SetColumns(columns []string) {
	m.columns = columns
}

// SetError sets an error to be returned by the mock
func (m *MockStore) SetError(err error) {
	m.err = err
}

// Entries returns the mock dataset
func (m *MockStore) Entries(ctx context.Context) ([]FoodEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

// FindByDesignation returns the first entry containing name
func (m *MockStore) FindByDesignation(ctx context.Context, name string) (*FoodEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	needle := strings.ToLower(name)
	for i := range m.entries {
		if strings.Contains(strings.ToLower(m.entries[i].Name), needle) {
			return &m.entries[i], nil
		}
	}
	return nil, nil
}

// Search returns up to limit entries containing term
func (m *MockStore) Search(ctx context.Context, term string, limit int) ([]FoodEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	needle := strings.ToLower(term)
	var results []FoodEntry
	for i := range m.entries {
		if strings.Contains(strings.ToLower(m.entries[i].Name), needle) {
			results = append(results, m.entries[i])
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// NutrientColumns returns the mock nutrient column set
func (m *MockStore) NutrientColumns(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.columns, nil
}

// TestConnection always succeeds unless an error is set
func (m *MockStore) TestConnection(ctx context.Context) error {
	return m.err
}

// Close closes the mock store (no-op)
func (m *MockStore) Close() error {
	return nil
}
