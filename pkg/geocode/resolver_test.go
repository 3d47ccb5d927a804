package geocode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testResolver() Resolver {
	return NewStaticResolver(map[string][2]float64{
		"Ленинский проспект 83":      {54.6903, 20.5105},
		"Музей Мирового океана":      {54.7065, 20.4995},
		"Зеленоградск, Курортный 20": {54.9602, 20.4753},
	})
}

func TestLookup(t *testing.T) {
	r := testResolver()

	t.Run("exact match", func(t *testing.T) {
		lat, lon, ok := r.Lookup("Ленинский проспект 83")
		assert.True(t, ok)
		assert.Equal(t, 54.6903, lat)
		assert.Equal(t, 20.5105, lon)
	})

	t.Run("query contained in a cached address", func(t *testing.T) {
		_, _, ok := r.Lookup("Курортный 20")
		assert.True(t, ok)
	})

	t.Run("cached address contained in the query", func(t *testing.T) {
		_, _, ok := r.Lookup("Музей Мирового океана, Калининград")
		assert.True(t, ok)
	})

	t.Run("partial match is case insensitive", func(t *testing.T) {
		_, _, ok := r.Lookup("музей мирового океана")
		assert.True(t, ok)
	})

	t.Run("miss yields no coordinates", func(t *testing.T) {
		_, _, ok := r.Lookup("Советский проспект 1")
		assert.False(t, ok)
	})

	t.Run("empty location never matches", func(t *testing.T) {
		_, _, ok := r.Lookup("   ")
		assert.False(t, ok)
	})
}

func TestNewResolver(t *testing.T) {
	t.Run("loads the fetcher cache format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geocode_cache.json")
		cache := `{
			"Площадь Победы": [54.7212, 20.4871],
			"неизвестный адрес": [null, null]
		}`
		assert.NoError(t, os.WriteFile(path, []byte(cache), 0o644))

		r, err := NewResolver(path)
		assert.NoError(t, err)

		lat, _, ok := r.Lookup("Площадь Победы")
		assert.True(t, ok)
		assert.Equal(t, 54.7212, lat)

		// Known-failed entries are not matchable.
		_, _, ok = r.Lookup("неизвестный адрес")
		assert.False(t, ok)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := NewResolver(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		assert.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := NewResolver(path)
		assert.Error(t, err)
	})
}
