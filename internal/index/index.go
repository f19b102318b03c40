// Package index turns the breed dictionary into the alphabetical index shown
// on the breeds page.
package index

import (
	"sort"
	"strings"

	"dogceo/browser/internal/domain"

	"github.com/sahilm/fuzzy"
)

// Build groups breeds by their first letter. Only a..z start a group; groups
// come in alphabetical order and breeds are sorted inside each group.
func Build(dict domain.BreedDictionary) []domain.LetterGroup {
	groups := make([]domain.LetterGroup, 0)
	byLetter := make(map[string]int)

	for _, name := range sortedNames(dict) {
		letter := strings.ToLower(name[:1])
		if letter < "a" || letter > "z" {
			continue
		}

		idx, ok := byLetter[letter]
		if !ok {
			groups = append(groups, domain.LetterGroup{Letter: letter})
			idx = len(groups) - 1
			byLetter[letter] = idx
		}

		groups[idx].Breeds = append(groups[idx].Breeds, domain.BreedEntry{
			Name:      domain.BreedName(name),
			SubBreeds: sortedCopy(dict[name]),
		})
	}

	return groups
}

// Filter keeps the breeds fuzzily matching query. An empty query returns dict.
func Filter(dict domain.BreedDictionary, query string) domain.BreedDictionary {
	query = strings.TrimSpace(query)
	if query == "" {
		return dict
	}

	names := dict.Names()
	filtered := make(domain.BreedDictionary)
	for _, match := range fuzzy.Find(strings.ToLower(query), lowerAll(names)) {
		name := names[match.Index]
		filtered[name] = dict[name]
	}
	return filtered
}

// sortedNames returns the non-empty breed names ordered case-insensitively.
func sortedNames(dict domain.BreedDictionary) []string {
	names := make([]string, 0, len(dict))
	for name := range dict {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

func lowerAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
