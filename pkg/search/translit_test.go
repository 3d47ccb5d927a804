package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCyrillicToLatin(t *testing.T) {
	assert.Equal(t, "kafe", CyrillicToLatin("кафе"))
	assert.Equal(t, "yolka", CyrillicToLatin("ёлка"))
	assert.Equal(t, "khleb", CyrillicToLatin("хлеб"))
	assert.Equal(t, "schuka", CyrillicToLatin("щука"))
	assert.Equal(t, "Kontsert", CyrillicToLatin("Концерт"))
	// Soft and hard signs vanish.
	assert.Equal(t, "den", CyrillicToLatin("день"))
	// Non-Cyrillic characters pass through.
	assert.Equal(t, "bar 1905", CyrillicToLatin("бар 1905"))
}

func TestLatinToCyrillic(t *testing.T) {
	t.Run("plain letters", func(t *testing.T) {
		assert.Equal(t, "кафе", LatinToCyrillic("cafe"))
		assert.Equal(t, "бар", LatinToCyrillic("bar"))
	})

	t.Run("digraphs are resolved before single letters", func(t *testing.T) {
		// "sh" must become "ш", never "с"+"х".
		assert.Equal(t, "шум", LatinToCyrillic("shum"))
		assert.Equal(t, "жар", LatinToCyrillic("zhar"))
		assert.Equal(t, "щи", LatinToCyrillic("schi"))
		assert.Equal(t, "чай", LatinToCyrillic("chaj"))
	})

	t.Run("capitalized digraphs map to capital letters", func(t *testing.T) {
		assert.Equal(t, "Шум", LatinToCyrillic("Shum"))
	})

	t.Run("non-Latin characters pass through", func(t *testing.T) {
		assert.Equal(t, "клуб 33", LatinToCyrillic("club 33"))
	})
}

func TestStripSigns(t *testing.T) {
	assert.Equal(t, "ден", StripSigns("день"))
	assert.Equal(t, "подезд", StripSigns("подъезд"))
	assert.Equal(t, "кафе", StripSigns("кафе"))
}

func TestVariants(t *testing.T) {
	t.Run("literal query always included", func(t *testing.T) {
		assert.Contains(t, Variants("cafe"), "cafe")
	})

	t.Run("latin query gains a cyrillic variant", func(t *testing.T) {
		assert.Contains(t, Variants("cafe"), "кафе")
	})

	t.Run("cyrillic query gains a latin variant", func(t *testing.T) {
		assert.Contains(t, Variants("кафе"), "kafe")
	})

	t.Run("long latin query gains prefix and suffix variants", func(t *testing.T) {
		variants := Variants("teatralnaya")
		assert.Contains(t, variants, "театралная") // full transliteration
		assert.Contains(t, variants, "теат")       // first four characters
		assert.Contains(t, variants, "ная")        // last four characters
	})

	t.Run("cyrillic query gains a sign-free variant", func(t *testing.T) {
		assert.Contains(t, Variants("читальня"), "читалня")
	})

	t.Run("variants are unique", func(t *testing.T) {
		variants := Variants("кафе")
		seen := make(map[string]struct{}, len(variants))
		for _, v := range variants {
			_, dup := seen[v]
			assert.False(t, dup, "duplicate variant %q", v)
			seen[v] = struct{}{}
		}
	})
}
