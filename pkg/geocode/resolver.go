package geocode

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Resolver looks coordinates up for a location string. Implementations
// are read-only after construction; a miss yields ok == false, never an
// error, so a record without coordinates stays in the data set.
type Resolver interface {
	Lookup(location string) (lat, lon float64, ok bool)
}

type cacheResolver struct {
	coords map[string][2]float64
}

// NewResolver loads the fetcher's geocode cache file: a JSON object
// mapping addresses to [lat, lon] pairs. Entries with null coordinates
// mark addresses that already failed geocoding and are skipped.
func NewResolver(path string) (Resolver, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read geocode cache: %w", err)
	}
	var cache map[string][]*float64
	if err := json.Unmarshal(raw, &cache); err != nil {
		return nil, fmt.Errorf("failed to parse geocode cache: %w", err)
	}
	coords := make(map[string][2]float64, len(cache))
	for addr, pair := range cache {
		if len(pair) != 2 || pair[0] == nil || pair[1] == nil {
			continue
		}
		coords[strings.TrimSpace(addr)] = [2]float64{*pair[0], *pair[1]}
	}
	log.Infof("geocode cache loaded: %d resolvable addresses", len(coords))
	return &cacheResolver{coords: coords}, nil
}

// NewStaticResolver builds a resolver over an in-memory address map,
// mainly for tests.
func NewStaticResolver(coords map[string][2]float64) Resolver {
	return &cacheResolver{coords: coords}
}

// Lookup tries an exact match first, then a partial match where either
// string contains the other, case-insensitively.
func (r *cacheResolver) Lookup(location string) (float64, float64, bool) {
	location = strings.TrimSpace(location)
	if location == "" {
		return 0, 0, false
	}
	if c, ok := r.coords[location]; ok {
		return c[0], c[1], true
	}
	lowerLoc := strings.ToLower(location)
	for addr, c := range r.coords {
		lowerAddr := strings.ToLower(addr)
		if strings.Contains(lowerAddr, lowerLoc) || strings.Contains(lowerLoc, lowerAddr) {
			return c[0], c[1], true
		}
	}
	return 0, 0, false
}
