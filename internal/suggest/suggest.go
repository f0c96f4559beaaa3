// Package suggest provides fuzzy matching for CLI flag, key and category
// suggestions using Levenshtein distance.
package suggest

import (
	"sort"
	"strings"
)

// levenshtein calculates the edit distance between two strings
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// Closest returns up to three candidates within edit range of word, best
// first. Matching ignores case.
func Closest(word string, candidates []string) []string {
	type scored struct {
		value string
		score int
	}
	word = strings.ToLower(word)
	maxDist := max(2, len(word)/2)

	var found []scored
	for _, c := range candidates {
		dist := levenshtein(word, strings.ToLower(c))
		if dist <= maxDist {
			found = append(found, scored{c, dist})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].score < found[j].score })

	var result []string
	for i := 0; i < len(found) && i < 3; i++ {
		result = append(result, found[i].value)
	}
	return result
}

// Flag finds similar flags from a list of valid flags, ignoring dashes.
func Flag(unknown string, validFlags []string) []string {
	stripped := make([]string, len(validFlags))
	byStripped := make(map[string]string, len(validFlags))
	for i, f := range validFlags {
		stripped[i] = strings.TrimLeft(f, "-")
		byStripped[stripped[i]] = f
	}
	var result []string
	for _, s := range Closest(strings.TrimLeft(unknown, "-"), stripped) {
		result = append(result, byStripped[s])
	}
	return result
}

// CommonFlagAliases maps commonly attempted flags to their correct names
var CommonFlagAliases = map[string]string{
	"tag":      "--tags",
	"label":    "--tags",
	"labels":   "--tags",
	"cat":      "--category, -c",
	"project":  "--category, -c",
	"date":     "--due",
	"deadline": "--due",
	"due-date": "--due",
	"prio":     "--priority, -p",
	"query":    "--search, -q",
	"status":   "--filter, -f",
	"order":    "--sort, -s",
	"version":  "use: tick version",
	"v":        "use: tick version",
}

// GetFlagHint returns a hint for a commonly misused flag
func GetFlagHint(flag string) string {
	flag = strings.ToLower(strings.TrimLeft(flag, "-"))
	return CommonFlagAliases[flag]
}
