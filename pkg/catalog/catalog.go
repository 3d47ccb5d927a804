package catalog

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meowafisha/meowafisha/internal/event_bus"
	"github.com/meowafisha/meowafisha/internal/utils"
	"github.com/meowafisha/meowafisha/pkg/dates"
	"github.com/meowafisha/meowafisha/pkg/event"
	"github.com/meowafisha/meowafisha/pkg/geocode"
	"github.com/meowafisha/meowafisha/pkg/schedule"
	"github.com/meowafisha/meowafisha/pkg/search"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotLoaded     = fmt.Errorf("events not loaded yet")
	ErrEventNotFound = fmt.Errorf("event not found")
)

// Snapshot is one immutable load cycle's worth of events: normalized,
// expanded to single-day occurrences, geocoded where possible, and
// sorted by date. Consumers must not mutate it; Reload swaps in a fresh
// one instead.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Events   []event.Event
}

// Service owns the current snapshot and answers all list, archive,
// search, and share-link queries over it.
type Service struct {
	loader   Loader
	resolver geocode.Resolver
	clock    utils.Clock
	bus      *event_bus.EventBus

	mu   sync.RWMutex
	snap *Snapshot
}

func NewService(loader Loader, resolver geocode.Resolver, clock utils.Clock, bus *event_bus.EventBus) *Service {
	return &Service{loader: loader, resolver: resolver, clock: clock, bus: bus}
}

// Reload runs a full load cycle: fetch raw records, expand multi-date
// cells into per-day occurrences, normalize dates, resolve missing
// coordinates, recompute ids, drop id duplicates, and swap the snapshot
// in. Malformed records degrade (fewer occurrences), they never abort
// the cycle.
func (s *Service) Reload() error {
	raw, err := s.loader.Load()
	if err != nil {
		return fmt.Errorf("load cycle failed: %w", err)
	}
	now := s.clock.Now()

	working := make([]event.Event, 0, len(raw))
	seen := make(map[string]struct{})
	dropped := 0
	for _, source := range raw {
		occurrences := event.Expand(source)
		if len(occurrences) == 0 {
			dropped++
			continue
		}
		for _, occ := range occurrences {
			occ.Date = dates.Normalize(occ.Date, now)
			if occ.Lat == nil || occ.Lon == nil {
				if lat, lon, ok := s.resolver.Lookup(occ.Location); ok {
					occ.Lat, occ.Lon = &lat, &lon
				}
			}
			occ.ID = event.MakeID(occ)
			if _, dup := seen[occ.ID]; dup {
				continue
			}
			seen[occ.ID] = struct{}{}
			working = append(working, occ)
		}
	}
	sortEvents(working, now)

	snap := &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: now,
		Events:   working,
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	log.Infof("catalog reloaded: snapshot %s, %d events from %d source records (%d dropped)",
		snap.ID, len(working), len(raw), dropped)
	if s.bus != nil {
		if err := s.bus.Publish(event_bus.NewEvent(event_bus.CatalogReloaded, event_bus.CatalogReloadedData{
			SnapshotID: snap.ID,
			EventCount: len(working),
			LoadedAt:   snap.LoadedAt,
		})); err != nil {
			log.Warnf("reload notification failed: %v", err)
		}
	}
	return nil
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *Service) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Events returns all events of the current snapshot in date order.
func (s *Service) Events() ([]event.Event, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Events, nil
}

// Upcoming partitions the snapshot against a single now and returns the
// sectioned upcoming view.
func (s *Service) Upcoming() ([]schedule.Section, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	now := s.clock.Now()
	// Grace-window events are technically archived but still belong in
	// the today section, so grouping sees them too.
	var visible []event.Event
	for _, e := range snap.Events {
		if schedule.Classify(e, now) == schedule.Upcoming || schedule.WithinGrace(e, now) {
			visible = append(visible, e)
		}
	}
	return schedule.GroupUpcoming(visible, now), nil
}

// Archive returns the flat archive view, most recent first.
func (s *Service) Archive() ([]event.Event, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	now := s.clock.Now()
	return schedule.SortArchive(partition(snap.Events, now, schedule.Archived), now), nil
}

// Search matches the query against upcoming events first, then archived
// ones, preserving date order inside each partition. ErrNotLoaded marks
// the distinct "still loading" state.
func (s *Service) Search(query string) ([]event.Event, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	now := s.clock.Now()
	corpus := partition(snap.Events, now, schedule.Upcoming)
	corpus = append(corpus, schedule.SortArchive(partition(snap.Events, now, schedule.Archived), now)...)
	return search.Search(query, corpus), nil
}

// FindByID resolves a share-link target.
func (s *Service) FindByID(id string) (event.Event, error) {
	snap := s.Snapshot()
	if snap == nil {
		return event.Event{}, ErrNotLoaded
	}
	for _, e := range snap.Events {
		if e.ID == id {
			return e, nil
		}
	}
	return event.Event{}, ErrEventNotFound
}

// partition filters events into one relevance class with a single now,
// so one render pass can never see an event on both sides.
func partition(events []event.Event, now time.Time, want schedule.Relevance) []event.Event {
	var out []event.Event
	for _, e := range events {
		if schedule.Classify(e, now) == want {
			out = append(out, e)
		}
	}
	return out
}

func sortEvents(events []event.Event, now time.Time) {
	// Canonical dates compare lexicographically; unparseable dates go last.
	type key struct {
		t  time.Time
		ok bool
	}
	keys := make(map[string]key, len(events))
	for _, e := range events {
		t, ok := dates.Instant(e.Date, now)
		keys[e.ID] = key{t, ok}
	}
	sort.SliceStable(events, func(i, j int) bool {
		ki, kj := keys[events[i].ID], keys[events[j].ID]
		if ki.ok != kj.ok {
			return ki.ok
		}
		if !ki.t.Equal(kj.t) {
			return ki.t.Before(kj.t)
		}
		return events[i].Title < events[j].Title
	})
}
