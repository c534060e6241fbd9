package match

import "strings"

// abbreviations maps common shorthand forms to their canonical city/state
// name, checked in both directions (spec.md §4.5.2: "a curated
// abbreviation table (e.g., LOS↔Lagos, FCT↔Abuja, PH↔Port Harcourt)").
var abbreviations = map[string]string{
	"los": "lagos",
	"fct": "abuja",
	"ph":  "port harcourt",
	"ibd": "ibadan",
	"kd":  "kaduna",
	"kn":  "kano",
	"ph city": "port harcourt",
}

// countrySynonyms maps alternate country spellings/abbreviations to a
// canonical form.
var countrySynonyms = map[string]string{
	"nga":       "nigeria",
	"ng":        "nigeria",
	"uk":        "united kingdom",
	"gb":        "united kingdom",
	"britain":   "united kingdom",
	"usa":       "united states",
	"us":        "united states",
	"america":   "united states",
	"uae":       "united arab emirates",
}

// regionClusters groups Nigerian cities that are commonly treated as
// interchangeable for job-search purposes (same metro region or
// commuting distance). Region matching is the weakest tier, applied only
// as a last resort (spec.md §4.5.2).
var regionClusters = [][]string{
	{"lagos", "ikeja", "lekki", "ajah", "victoria island", "surulere", "yaba"},
	{"abuja", "gwarinpa", "garki", "wuse", "maitama", "asokoro"},
	{"port harcourt", "obio-akpor", "eleme"},
	{"ibadan", "ogbomoso"},
	{"kano", "kaduna", "zaria"},
}

func normalizeLocationToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func expand(token string) []string {
	token = normalizeLocationToken(token)
	variants := []string{token}
	if v, ok := abbreviations[token]; ok {
		variants = append(variants, v)
	}
	for abbr, full := range abbreviations {
		if full == token {
			variants = append(variants, abbr)
		}
	}
	if v, ok := countrySynonyms[token]; ok {
		variants = append(variants, v)
	}
	for syn, full := range countrySynonyms {
		if full == token {
			variants = append(variants, syn)
		}
	}
	return variants
}

func sameRegion(a, b string) bool {
	a, b = normalizeLocationToken(a), normalizeLocationToken(b)
	for _, cluster := range regionClusters {
		inA, inB := false, false
		for _, city := range cluster {
			if city == a {
				inA = true
			}
			if city == b {
				inB = true
			}
		}
		if inA && inB {
			return true
		}
	}
	return false
}

// locationMatches reports whether a user-preferred location string
// matches a job's normalized city/state/country, via direct
// case-insensitive substring, the abbreviation table, the country-synonym
// table, or (as the weakest, last-resort tier) the same-region table.
func locationMatches(preferred, city, state, country string) bool {
	preferred = normalizeLocationToken(preferred)
	if preferred == "" {
		return false
	}

	jobTokens := []string{normalizeLocationToken(city), normalizeLocationToken(state), normalizeLocationToken(country)}

	for _, jobToken := range jobTokens {
		if jobToken == "" {
			continue
		}
		if strings.Contains(jobToken, preferred) || strings.Contains(preferred, jobToken) {
			return true
		}
	}

	for _, variant := range expand(preferred) {
		for _, jobToken := range jobTokens {
			if jobToken == "" {
				continue
			}
			if strings.Contains(jobToken, variant) || strings.Contains(variant, jobToken) {
				return true
			}
		}
	}

	for _, jobToken := range jobTokens {
		if jobToken == "" {
			continue
		}
		if sameRegion(preferred, jobToken) {
			return true
		}
	}

	return false
}

// PassesLocationFilter implements the location hard filter (spec.md
// §4.5.2). A posting that fails this filter is excluded from scoring
// entirely.
func PassesLocationFilter(desiredLocations []string, acceptsRemote, jobPermitsRemote, willingToRelocate, hasAnyLocation bool, city, state, country string) bool {
	if len(desiredLocations) == 0 {
		return true
	}
	if acceptsRemote && jobPermitsRemote {
		return true
	}
	if willingToRelocate && hasAnyLocation {
		return true
	}
	for _, loc := range desiredLocations {
		if locationMatches(loc, city, state, country) {
			return true
		}
	}
	return false
}
