package planner

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mealweek/bls-meal-plan/internal/config"
	"github.com/mealweek/bls-meal-plan/internal/recipe"
)

// PlanSize is the number of recipes in a weekly plan, one per day
const PlanSize = 7

// Status reports the quality of a solve
type Status int

const (
	StatusOptimal Status = iota
	StatusFeasible
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusFeasible:
		return "Feasible"
	case StatusInfeasible:
		return "Infeasible"
	default:
		return "Unknown"
	}
}

// Selection is one chosen recipe with its scoring breakdown
type Selection struct {
	Recipe recipe.Record
	// Coverage sums the recipe's per-person share of each weekly goal
	Coverage float64
	// LactoseMg is lactose per person in milligrams
	LactoseMg float64
	Score     float64
}

// Result is the outcome of a weekly solve
type Result struct {
	Status Status
	// Selected holds exactly PlanSize recipes, best score first,
	// empty when Status is StatusInfeasible
	Selected []Selection
	// Eligible counts recipes surviving exclusion and lactose filters
	Eligible int
	Elapsed  time.Duration
}

// Optimizer scores recipes and picks the weekly selection
type Optimizer struct {
	cfg *config.Config
	log *slog.Logger
}

// NewOptimizer creates an optimizer with the given configuration
func NewOptimizer(cfg *config.Config, logger *slog.Logger) *Optimizer {
	return &Optimizer{cfg: cfg, log: logger}
}

// Solve selects exactly PlanSize recipes maximizing a tiered objective:
// nutrient-goal coverage first, rating as a tie-break, total lactose as
// the final tie-break. The objective is separable per recipe and the
// only coupling constraint is the selection count, so sorting by score
// and taking the top PlanSize recipes is the exact optimum.
func (o *Optimizer) Solve(records []recipe.Record, excluded map[string]bool) (*Result, error) {
	start := time.Now()
	deadline := start.Add(o.cfg.SolveTimeout())

	household := o.cfg.HouseholdSize
	if household < 1 {
		household = 1
	}
	goals := config.WeeklyGoals()
	nutrients := config.TrackedNutrients()

	maxRating := 0.0
	for _, r := range records {
		if r.Rating > maxRating {
			maxRating = r.Rating
		}
	}

	var candidates []Selection
	filteredExcluded, filteredLactose := 0, 0
	for _, r := range records {
		if excluded[normName(r.Name)] {
			filteredExcluded++
			continue
		}

		lactoseMg := r.LactoseGrams(config.LactoseColumn) * 1000 / float64(household)
		if lactoseMg > o.cfg.MaxLactosePerRecipeMg {
			filteredLactose++
			continue
		}

		coverage := 0.0
		for _, n := range nutrients {
			goal := goals[n.GoalKey]
			if goal <= 0 {
				continue
			}
			coverage += r.Nutrients[n.Column] / float64(household) / goal
		}

		score := coverage * 1000
		if maxRating > 0 {
			score += r.Rating / maxRating * 100
		}
		score -= lactoseMg * 0.01

		candidates = append(candidates, Selection{
			Recipe:    r,
			Coverage:  coverage,
			LactoseMg: lactoseMg,
			Score:     score,
		})
	}

	o.log.Info("filtered recipe universe",
		"total", len(records),
		"excluded", filteredExcluded,
		"over_lactose_cap", filteredLactose,
		"eligible", len(candidates))

	if len(candidates) < PlanSize {
		return &Result{
			Status:   StatusInfeasible,
			Eligible: len(candidates),
			Elapsed:  time.Since(start),
		}, fmt.Errorf("only %d eligible recipes, need %d", len(candidates), PlanSize)
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	status := StatusOptimal
	if time.Now().After(deadline) {
		// The budget was exhausted, report the solution as best-effort
		status = StatusFeasible
	}

	return &Result{
		Status:   status,
		Selected: candidates[:PlanSize],
		Eligible: len(candidates),
		Elapsed:  time.Since(start),
	}, nil
}

// WeeklyTotals sums per-person nutrient amounts across the selection,
// keyed by BLS column header
func (r *Result) WeeklyTotals(household int) map[string]float64 {
	if household < 1 {
		household = 1
	}
	totals := make(map[string]float64)
	for _, s := range r.Selected {
		for column, amount := range s.Recipe.Nutrients {
			totals[column] += amount / float64(household)
		}
	}
	return totals
}

func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
