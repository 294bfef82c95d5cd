package countries

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxDistance is the largest edit distance accepted by the fuzzy match.
const maxDistance = 2

// minSubstring is the shortest query matched as part of a longer name.
const minSubstring = 4

// Code returns the two-letter code of a country given by name or code.
// Unresolvable input is returned unchanged.
func Code(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	if cc, ok := overrides[name]; ok {
		return cc
	}
	for _, c := range iso {
		if c.Name == name || c.Alpha2 == name {
			return c.Alpha2
		}
	}
	if c, ok := search(name); ok {
		return c.Alpha2
	}
	return name
}

// Name returns the display name of a code, preferring the default areas.
func Name(code string) (string, bool) {
	for _, a := range Areas {
		if a.Code == code {
			return a.Name, true
		}
	}
	for _, c := range iso {
		if c.Alpha2 == code {
			return c.Name, true
		}
	}
	return "", false
}

// search matches name against the table ignoring case and diacritics: an
// exact match first, then a substring, then the closest name within maxDistance.
func search(name string) (Country, bool) {
	query := fold(name)
	if query == "" {
		return Country{}, false
	}

	folded := make([]string, len(iso))
	for i, c := range iso {
		folded[i] = fold(c.Name)
		if folded[i] == query || strings.EqualFold(c.Alpha2, query) {
			return c, true
		}
	}
	if len([]rune(query)) >= minSubstring {
		for i, c := range iso {
			if strings.Contains(folded[i], query) {
				return c, true
			}
		}
	}

	best, bestDist := -1, maxDistance+1
	for i := range iso {
		if d := levenshtein(query, folded[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Country{}, false
	}
	return iso[best], true
}

// fold strips diacritics and case-folds s.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.TrimSpace(cases.Fold().String(stripped))
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
