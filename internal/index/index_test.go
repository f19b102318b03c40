package index

import (
	"testing"

	"dogceo/browser/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("two letter groups", func(t *testing.T) {
		groups := Build(domain.BreedDictionary{
			"terrier": {"toy", "boston"},
			"akita":   {},
		})

		require.Len(t, groups, 2)
		assert.Equal(t, "a", groups[0].Letter)
		assert.Equal(t, "t", groups[1].Letter)

		require.Len(t, groups[0].Breeds, 1)
		assert.Equal(t, domain.BreedName("akita"), groups[0].Breeds[0].Name)
		assert.Empty(t, groups[0].Breeds[0].SubBreeds)

		require.Len(t, groups[1].Breeds, 1)
		assert.Equal(t, domain.BreedName("terrier"), groups[1].Breeds[0].Name)
		assert.Equal(t, []string{"boston", "toy"}, groups[1].Breeds[0].SubBreeds)
	})

	t.Run("breeds sorted within a group", func(t *testing.T) {
		groups := Build(domain.BreedDictionary{
			"bulldog":  {},
			"beagle":   {},
			"boxer":    {},
			"airedale": {},
		})

		require.Len(t, groups, 2)
		var names []domain.BreedName
		for _, b := range groups[1].Breeds {
			names = append(names, b.Name)
		}
		assert.Equal(t, []domain.BreedName{"beagle", "boxer", "bulldog"}, names)
	})

	t.Run("names outside a..z are skipped", func(t *testing.T) {
		groups := Build(domain.BreedDictionary{"2dog": {}, "": {}, "akita": {}})
		require.Len(t, groups, 1)
		assert.Equal(t, "a", groups[0].Letter)
	})

	t.Run("empty dictionary", func(t *testing.T) {
		assert.Empty(t, Build(nil))
	})

	t.Run("sub-breed order of the input is untouched", func(t *testing.T) {
		dict := domain.BreedDictionary{"terrier": {"toy", "boston"}}
		Build(dict)
		assert.Equal(t, []string{"toy", "boston"}, dict["terrier"])
	})
}

func TestFilter(t *testing.T) {
	dict := domain.BreedDictionary{
		"akita":   {},
		"terrier": {"boston", "toy"},
		"beagle":  {},
	}

	t.Run("fuzzy match", func(t *testing.T) {
		got := Filter(dict, "terr")
		assert.Equal(t, domain.BreedDictionary{"terrier": {"boston", "toy"}}, got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := Filter(dict, "AKI")
		assert.Contains(t, got, "akita")
		assert.Len(t, got, 1)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Equal(t, dict, Filter(dict, "  "))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Filter(dict, "zzz"))
	})
}
