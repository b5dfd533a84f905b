package discord

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxSuggestions = 3

// Suggest returns up to three candidates close to input: fuzzy subsequence
// matches first, then anything within two edits (typos like "rlol").
func Suggest(input string, candidates []string) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil
	}

	matches := fuzzy.RankFindNormalizedFold(input, candidates)
	sort.Sort(matches)

	var suggestions []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] && len(suggestions) < maxSuggestions {
			seen[s] = true
			suggestions = append(suggestions, s)
		}
	}
	for _, m := range matches {
		add(m.Target)
	}

	type typo struct {
		target   string
		distance int
	}
	var typos []typo
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(input, strings.ToLower(c)); d <= 2 {
			typos = append(typos, typo{c, d})
		}
	}
	sort.SliceStable(typos, func(i, j int) bool { return typos[i].distance < typos[j].distance })
	for _, t := range typos {
		add(t.target)
	}
	return suggestions
}
