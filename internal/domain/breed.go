package domain

import (
	"sort"
	"strings"
)

// BreedName identifies a breed both in API paths and in the selection record.
type BreedName string

func (b BreedName) String() string {
	return string(b)
}

// Normalize returns the lowercase, trimmed form used in request paths.
func (b BreedName) Normalize() BreedName {
	return BreedName(strings.ToLower(strings.TrimSpace(string(b))))
}

func (b BreedName) IsEmpty() bool {
	return strings.TrimSpace(string(b)) == ""
}

// Title upper-cases the first letter for page headings.
func (b BreedName) Title() string {
	s := string(b)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// BreedDictionary maps a breed to its sub-breeds, in the order the API returned them.
type BreedDictionary map[string][]string

// Names returns the breed names sorted alphabetically.
func (d BreedDictionary) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ImageList is an ordered list of image URLs for one breed.
type ImageList []string

// SubBreedList is an ordered list of sub-breed names for one breed.
type SubBreedList []string

// BreedEntry is one row of the alphabetical index.
type BreedEntry struct {
	Name      BreedName `json:"name"`
	SubBreeds []string  `json:"sub_breeds"`
}

// LetterGroup holds the breeds starting with Letter, sorted by name.
type LetterGroup struct {
	Letter string       `json:"letter"`
	Breeds []BreedEntry `json:"breeds"`
}
