// Package ingredient turns raw German recipe ingredient lines into
// normalized base names, quantities, and gram-weight estimates.
package ingredient

import (
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Parsed is the result of normalizing one raw ingredient line
type Parsed struct {
	// Original is the raw input line
	Original string
	// BaseName is the normalized name after stripping quantity, unit,
	// and preparation modifiers
	BaseName string
	// QuantityRaw is the matched leading quantity substring, e.g. "10 g"
	QuantityRaw string
	// Quantity is the numeric quantity (1.0 when absent)
	Quantity float64
	// HadQuantity reports whether an explicit quantity was present
	HadQuantity bool
	// Variant captures a stripped color or preparation form, e.g. "rot"
	Variant string
}

// quantityUnits are the German unit tokens recognized after a number
var quantityUnits = []string{
	"g", "kg", "mg", // weight
	"ml", "l", "dl", "cl", // volume
	"tl", "el", "esslöffel", // spoons
	"teelöffel", "essl", "teel",
	"prise", "prisen", // pinch
	"pack", "packs", // package
	"dose", "dosen", // can
	"bund", "bündel", // bundle
	"blatt", "blätter", // leaves
	"strand", "strang", // strand
	"stück", "stücke", // piece
	"scheibe", "scheiben", // slice
	"tropfen", // drop
	"halter", "zweig", "zweige", // branch
}

// preparationModifiers are stripped from the end of the remainder
var preparationModifiers = []string{
	"frisch", "fresh",
	"getrocknet", "dried", "trocken",
	"gemahlen", "ground", "powder",
	"roh", "raw", "ungekocht",
	"gekocht", "cooked", "gegart",
	"gebraten", "fried", "braten",
	"geschmort", "braised",
	"tiefgefroren", "gefrorenen", "frozen",
	"konserve", "canned", "eingemacht",
	"mariniert", "marinated",
	"geraucher", "rauchert", "smoked",
	"ohne haut", "ohne kern",
}

// colorPrefix maps an inflected leading color/type word to its variant form.
// Order matters: longer inflections first so "roten" wins over "rote".
var colorPrefixes = []struct {
	term    string
	variant string
}{
	{"roten", "rot"}, {"rote", "rot"}, {"red", "rot"},
	{"weißen", "weiß"}, {"weiße", "weiß"}, {"white", "weiß"},
	{"grünen", "grün"}, {"grüne", "grün"}, {"green", "grün"},
	{"gelben", "gelb"}, {"gelbe", "gelb"}, {"yellow", "gelb"},
	{"schwarzen", "schwarz"}, {"schwarze", "schwarz"}, {"black", "schwarz"},
	{"braunen", "braun"}, {"braune", "braun"}, {"brown", "braun"},
	{"dunklen", "dunkel"}, {"dunkle", "dunkel"},
	{"hellen", "hell"}, {"helle", "hell"},
}

var (
	quantityRe   *regexp.Regexp
	bareNumberRe = regexp.MustCompile(`^([\d½⅓¼¾]+)\s+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	modifierRes  []modifierPattern
	modifierSet  map[string]bool
)

type modifierPattern struct {
	word string
	re   *regexp.Regexp
}

func init() {
	units := append([]string(nil), quantityUnits...)
	// Longest unit first so "esslöffel" is not cut off at "el"
	sort.Slice(units, func(i, j int) bool { return len(units[i]) > len(units[j]) })
	for i, u := range units {
		units[i] = regexp.QuoteMeta(u)
	}
	quantityRe = regexp.MustCompile(`(?i)^([\d½⅓¼¾\s]+(?:(?:` + strings.Join(units, "|") + `)\b)?\s*(?:,|\.)?\s*)`)

	mods := append([]string(nil), preparationModifiers...)
	sort.Slice(mods, func(i, j int) bool { return len(mods[i]) > len(mods[j]) })
	modifierSet = make(map[string]bool, len(mods))
	for _, m := range mods {
		modifierSet[m] = true
		modifierRes = append(modifierRes, modifierPattern{
			word: m,
			re:   regexp.MustCompile(`(?i)(\s+|,\s*)` + regexp.QuoteMeta(m) + `(\s|,|$)`),
		})
	}
}

// Parse normalizes one raw ingredient line.
// Examples: "10 g ingwer, frisch" -> base "ingwer", quantity "10 g",
// variant "frisch"; "1 rote paprika" -> base "paprika", variant "rot".
func Parse(raw string) Parsed {
	if strings.TrimSpace(raw) == "" {
		return Parsed{Quantity: 1}
	}

	original := norm.NFC.String(html.UnescapeString(raw))
	original = strings.TrimSpace(strings.ReplaceAll(original, " ", " "))
	result := Parsed{Original: raw, Quantity: 1}

	// Step 1: leading quantity, number + optional unit
	cleaned := original
	if m := quantityRe.FindStringSubmatch(original); m != nil && strings.TrimSpace(m[1]) != "" {
		result.QuantityRaw = strings.TrimSpace(m[1])
		cleaned = strings.TrimSpace(original[len(m[1]):])
	} else if m := bareNumberRe.FindStringSubmatch(original); m != nil {
		result.QuantityRaw = strings.TrimSpace(m[1])
		cleaned = strings.TrimSpace(original[len(m[0]):])
	}
	if result.QuantityRaw != "" {
		result.HadQuantity = true
		result.Quantity = quantityValue(result.QuantityRaw)
	}

	// Step 2: leading color/type word becomes the variant
	lower := strings.ToLower(cleaned)
	for _, c := range colorPrefixes {
		if strings.HasPrefix(lower, c.term+" ") {
			result.Variant = c.variant
			cleaned = strings.TrimSpace(cleaned[len(c.term):])
			break
		}
	}

	// Step 3: strip trailing preparation modifiers, longest first
	for _, mp := range modifierRes {
		if mp.re.MatchString(cleaned) {
			if result.Variant == "" {
				result.Variant = mp.word
			}
			cleaned = strings.TrimSpace(mp.re.ReplaceAllString(cleaned, " "))
		}
	}

	// Step 4: irregular past participles, "getrocknetes" style leading "ge"
	if len(cleaned) > 3 && strings.HasPrefix(strings.ToLower(cleaned), "ge") {
		rest := cleaned[2:]
		if modifierSet[strings.ToLower(rest)] {
			if result.Variant == "" {
				result.Variant = strings.ToLower(rest)
			}
			cleaned = rest
		}
	}

	// Step 5: final cleanup
	base := strings.ToLower(strings.TrimSpace(cleaned))
	base = whitespaceRe.ReplaceAllString(base, " ")
	base = strings.TrimRight(base, ".,")
	result.BaseName = base

	return result
}

// Normalize returns only the base name, for mapping lookups
func Normalize(raw string) string {
	return Parse(raw).BaseName
}

// quantityValue converts a matched quantity substring to a number.
// Fraction glyphs become decimals; a missing number defaults to 1.
func quantityValue(raw string) float64 {
	numRe := regexp.MustCompile(`[\d.½⅓¼¾]+`)
	m := numRe.FindString(raw)
	if m == "" {
		return 1
	}

	whole := 0.0
	frac := 0.0
	digits := strings.Builder{}
	for _, r := range m {
		switch r {
		case '½':
			frac += 0.5
		case '⅓':
			frac += 1.0 / 3.0
		case '¼':
			frac += 0.25
		case '¾':
			frac += 0.75
		default:
			digits.WriteRune(r)
		}
	}
	if s := strings.Trim(digits.String(), "."); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			whole = v
		}
	}

	total := whole + frac
	if total <= 0 {
		return 1
	}
	return total
}
