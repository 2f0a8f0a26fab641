package config

import "strings"

// Nutrient binds a BLS column to a goal key and the short code used in
// recipe snapshot columns and the optimizer.
type Nutrient struct {
	// Full BLS column header, e.g. "FE Eisen [mg/100g]"
	Column string
	// Goal key, e.g. "iron"
	GoalKey string
	// Short code, e.g. "FE_mg"
	Code string
}

// TrackedNutrients lists the nutrients with dietary goals, in report order.
func TrackedNutrients() []Nutrient {
	return []Nutrient{
		{"ENERCC Energie (Kilokalorien) [kcal/100g]", "calories", "ENERCC_kcal"},
		{"PROT625 Protein (Nx6,25) [g/100g]", "protein", "PROT_g"},
		{"FAT Fett [g/100g]", "fat", "FAT_g"},
		{"CHO Kohlenhydrate, verfügbar [g/100g]", "carbs", "CHO_g"},
		{"FIBT Ballaststoffe, gesamt [g/100g]", "fiber", "FIBT_g"},
		{"VITA Vitamin A, Retinol-Äquivalent (RE) [µg/100g]", "vitamin_a", "VITA_ug"},
		{"VITC Vitamin C [mg/100g]", "vitamin_c", "VITC_mg"},
		{"VITB12 Vitamin B12 (Cobalamine) [µg/100g]", "vitamin_b12", "VITB12_ug"},
		{"FE Eisen [mg/100g]", "iron", "FE_mg"},
		{"CA Calcium [mg/100g]", "calcium", "CA_mg"},
		{"MG Magnesium [mg/100g]", "magnesium", "MG_mg"},
	}
}

// LactoseColumn is the BLS column used for the lactose constraint.
const LactoseColumn = "LACS Lactose [g/100g]"

// DailyGoals returns the per-day dietary targets keyed by goal key.
// Units follow the BLS columns (kcal, g, mg, µg).
func DailyGoals() map[string]float64 {
	goals := map[string]float64{
		"calories":    2000,
		"protein":     55,
		"fat":         70,
		"carbs":       250,
		"fiber":       30,
		"vitamin_a":   700,
		"vitamin_c":   75,
		"vitamin_b12": 2.4,
		"iron":        8,
		"calcium":     1000,
		"magnesium":   400,
	}

	for key := range goals {
		if v := getEnvFloat("DAILY_GOAL_"+strings.ToUpper(key), -1); v >= 0 {
			goals[key] = v
		}
	}
	return goals
}

// WeeklyGoals returns the weekly targets (daily x 7) keyed by goal key.
func WeeklyGoals() map[string]float64 {
	weekly := make(map[string]float64)
	for key, daily := range DailyGoals() {
		weekly[key] = daily * 7
	}
	return weekly
}
