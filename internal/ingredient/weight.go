package ingredient

import "strings"

// pieceWeights maps a base-name substring to the gram weight of one piece.
// Checked in order so the more specific entry must come before a prefix of it.
var pieceWeights = []struct {
	name  string
	grams float64
}{
	{"eigelb", 18},
	{"ei", 55},
	{"zwiebel", 100},
	{"knoblauch", 4},
	{"tomate", 400},
	{"bohne", 400},
	{"linse", 400},
	{"tortilla", 40},
	{"avocado", 180},
	{"limette", 50},
}

// defaultWeights covers common no-quantity herbs and aromatics
var defaultWeights = []struct {
	name  string
	grams float64
}{
	{"petersilie", 10},
	{"koriander", 10},
	{"knoblauch", 4},
	{"ingwer", 5},
}

// EstimateWeight converts a parsed quantity into grams.
// Quantities of 10 or more are treated as already being grams; smaller
// values count pieces and are scaled by a per-ingredient piece weight.
func EstimateWeight(baseName string, quantity float64, hadQuantity bool) float64 {
	name := strings.ToLower(baseName)

	if !hadQuantity {
		for _, d := range defaultWeights {
			if strings.Contains(name, d.name) {
				return d.grams
			}
		}
		return 1
	}

	if quantity >= 10 {
		return quantity
	}

	for _, p := range pieceWeights {
		if strings.Contains(name, p.name) {
			return quantity * p.grams
		}
	}

	// No piece weight known. The raw count is kept as grams, which
	// understates whole items like "2 paprika"; mapping such lines to
	// gram quantities upstream avoids this path.
	return quantity
}
