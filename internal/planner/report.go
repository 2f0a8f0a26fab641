package planner

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mealweek/bls-meal-plan/internal/bls"
	"github.com/mealweek/bls-meal-plan/internal/config"
	"github.com/mealweek/bls-meal-plan/internal/recipe"
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// lactoseContributor is one matched ingredient carrying lactose
type lactoseContributor struct {
	Name      string
	LactoseMg float64
}

// WritePlanCSV writes the weekly plan table, one row per day
func WritePlanCSV(path string, result *Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create plan directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	defer f.Close()

	nutrients := config.TrackedNutrients()
	header := []string{"day", "recipe_name", "recipe_url", "rating", "lactose_mg_per_person"}
	for _, n := range nutrients {
		header = append(header, n.Code)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write plan header: %w", err)
	}

	for i, s := range result.Selected {
		row := []string{
			dayNames[i],
			s.Recipe.Name,
			s.Recipe.URL,
			strconv.FormatFloat(s.Recipe.Rating, 'f', -1, 64),
			strconv.FormatFloat(s.LactoseMg, 'f', 2, 64),
		}
		for _, n := range nutrients {
			row = append(row, strconv.FormatFloat(s.Recipe.Nutrients[n.Column], 'f', 2, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write plan row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush plan file: %w", err)
	}
	return nil
}

// BuildReport renders the human-readable weekly report.
// Lactose contributors are recomputed from the audit trail weights and
// the live food table so the report reflects current composition data.
func BuildReport(ctx context.Context, result *Result, store bls.Store, cfg *config.Config) (string, error) {
	var b strings.Builder

	b.WriteString("WEEKLY MEAL PLAN\n")
	b.WriteString("================\n\n")
	fmt.Fprintf(&b, "Solver status: %s (%.2fs)\n", result.Status, result.Elapsed.Seconds())
	fmt.Fprintf(&b, "Eligible recipes: %d\n", result.Eligible)
	fmt.Fprintf(&b, "Household size: %d\n", cfg.HouseholdSize)

	var ratingSum, matchRateSum float64
	for _, s := range result.Selected {
		ratingSum += s.Recipe.Rating
		matchRateSum += s.Recipe.MatchRate
	}
	if n := len(result.Selected); n > 0 {
		fmt.Fprintf(&b, "Total rating: %.0f  Avg match rate: %.0f%%\n", ratingSum, matchRateSum/float64(n))
	}
	b.WriteString("\n")

	nutrients := config.TrackedNutrients()
	lactoseFree := 0

	for i, s := range result.Selected {
		fmt.Fprintf(&b, "%s: %s\n", dayNames[i], s.Recipe.Name)
		if s.Recipe.URL != "" {
			fmt.Fprintf(&b, "  %s\n", s.Recipe.URL)
		}
		fmt.Fprintf(&b, "  Rating: %.0f  Match rate: %.0f%%\n", s.Recipe.Rating, s.Recipe.MatchRate)

		for _, n := range nutrients {
			amount := s.Recipe.Nutrients[n.Column]
			if amount <= 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s: %.1f\n", n.Code, amount)
		}

		contributors, err := lactoseContributors(ctx, s.Recipe, store)
		if err != nil {
			return "", err
		}
		if len(contributors) == 0 {
			lactoseFree++
			b.WriteString("  Lactose: none\n")
		} else {
			fmt.Fprintf(&b, "  Lactose: %.0f mg/person\n", s.LactoseMg)
			for _, c := range contributors {
				fmt.Fprintf(&b, "    %s: %.0f mg\n", c.Name, c.LactoseMg)
			}
		}

		writeUnmatched(&b, s.Recipe.Audit)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Lactose-free recipes: %d of %d\n\n", lactoseFree, len(result.Selected))

	b.WriteString("WEEKLY NUTRIENT COVERAGE (per person)\n")
	b.WriteString("-------------------------------------\n")
	totals := result.WeeklyTotals(cfg.HouseholdSize)
	goals := config.WeeklyGoals()
	for _, n := range nutrients {
		total := totals[n.Column]
		goal := goals[n.GoalKey]
		pct := 0.0
		if goal > 0 {
			pct = total / goal * 100
		}
		fmt.Fprintf(&b, "%-12s %10.1f / %-10.1f %6.1f%%\n", n.Code, total, goal, pct)
	}

	return b.String(), nil
}

// WriteReport renders and writes the text report to path
func WriteReport(ctx context.Context, path string, result *Result, store bls.Store, cfg *config.Config) error {
	report, err := BuildReport(ctx, result, store, cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// lactoseContributors recomputes lactose per matched ingredient from
// its audited weight, returning entries above 1 mg sorted descending
func lactoseContributors(ctx context.Context, r recipe.Record, store bls.Store) ([]lactoseContributor, error) {
	var out []lactoseContributor
	for _, a := range r.Audit {
		if !a.Matched {
			continue
		}
		entry, err := store.FindByDesignation(ctx, a.BLSName)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %q: %w", a.BLSName, err)
		}
		if entry == nil {
			continue
		}
		mg := entry.Nutrients[config.LactoseColumn] * a.WeightG / 100 * 1000
		if mg <= 1 {
			continue
		}
		out = append(out, lactoseContributor{Name: a.BLSName, LactoseMg: mg})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LactoseMg > out[j].LactoseMg })
	return out, nil
}

// writeUnmatched lists up to five unmatched ingredients of a recipe
func writeUnmatched(b *strings.Builder, audit []recipe.AuditEntry) {
	var unmatched []string
	for _, a := range audit {
		if !a.Matched {
			unmatched = append(unmatched, a.Original)
		}
	}
	if len(unmatched) == 0 {
		return
	}
	fmt.Fprintf(b, "  Unmatched ingredients (%d):\n", len(unmatched))
	shown := unmatched
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, u := range shown {
		fmt.Fprintf(b, "    - %s\n", u)
	}
	if rest := len(unmatched) - len(shown); rest > 0 {
		fmt.Fprintf(b, "    ... and %d more\n", rest)
	}
}
