package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meowafisha/meowafisha/internal/event_bus"
	"github.com/meowafisha/meowafisha/internal/utils"
	"github.com/meowafisha/meowafisha/pkg/event"
	"github.com/meowafisha/meowafisha/pkg/geocode"
	"github.com/stretchr/testify/assert"
)

// Friday, November 15th 2024, noon.
var testNow = time.Date(2024, time.November, 15, 12, 0, 0, 0, time.UTC)

func testService(events []event.Event) *Service {
	resolver := geocode.NewStaticResolver(map[string][2]float64{
		"Дом искусств": {54.7104, 20.5101},
	})
	clock := &utils.MockClock{FixedNow: testNow}
	return NewService(&StubLoader{Events: events}, resolver, clock, event_bus.NewEventBus())
}

func TestReload(t *testing.T) {
	t.Run("multi-date records expand into per-day occurrences", func(t *testing.T) {
		s := testService([]event.Event{
			{Date: "16-17.11", Title: "Ярмарка", Location: "Площадь"},
		})
		assert.NoError(t, s.Reload())

		events, err := s.Events()
		assert.NoError(t, err)
		assert.Len(t, events, 2)
		assert.Equal(t, "2024-11-16", events[0].Date)
		assert.Equal(t, "2024-11-17", events[1].Date)
		assert.NotEqual(t, events[0].ID, events[1].ID)
	})

	t.Run("dates are normalized to canonical form", func(t *testing.T) {
		s := testService([]event.Event{
			{Date: "16.11", Title: "Концерт", Location: "Клуб"},
		})
		assert.NoError(t, s.Reload())

		events, _ := s.Events()
		assert.Equal(t, "2024-11-16", events[0].Date)
	})

	t.Run("missing coordinates are resolved from the geocode cache", func(t *testing.T) {
		s := testService([]event.Event{
			{Date: "16.11", Title: "Выставка", Location: "Дом искусств"},
		})
		assert.NoError(t, s.Reload())

		events, _ := s.Events()
		assert.NotNil(t, events[0].Lat)
		assert.Equal(t, 54.7104, *events[0].Lat)
	})

	t.Run("events without resolvable coordinates are retained", func(t *testing.T) {
		s := testService([]event.Event{
			{Date: "16.11", Title: "Пикник", Location: "где-то в лесу"},
		})
		assert.NoError(t, s.Reload())

		events, _ := s.Events()
		assert.Len(t, events, 1)
		assert.Nil(t, events[0].Lat)
	})

	t.Run("records with unparseable dates disappear", func(t *testing.T) {
		s := testService([]event.Event{
			{Date: "уточняется", Title: "Концерт"},
			{Date: "16.11", Title: "Ярмарка"},
		})
		assert.NoError(t, s.Reload())

		events, _ := s.Events()
		assert.Len(t, events, 1)
		assert.Equal(t, "Ярмарка", events[0].Title)
	})

	t.Run("duplicate occurrences collapse by id", func(t *testing.T) {
		s := testService([]event.Event{
			{Date: "16.11", Title: "Концерт"},
			{Date: "16.11", Title: "Концерт"},
		})
		assert.NoError(t, s.Reload())

		events, _ := s.Events()
		assert.Len(t, events, 1)
	})

	t.Run("events come out sorted by date", func(t *testing.T) {
		s := testService([]event.Event{
			{Date: "20.11", Title: "Позднее"},
			{Date: "16.11", Title: "Раннее"},
		})
		assert.NoError(t, s.Reload())

		events, _ := s.Events()
		assert.Equal(t, "Раннее", events[0].Title)
		assert.Equal(t, "Позднее", events[1].Title)
	})

	t.Run("each reload produces a fresh snapshot id", func(t *testing.T) {
		s := testService([]event.Event{{Date: "16.11", Title: "Концерт"}})
		assert.NoError(t, s.Reload())
		first := s.Snapshot().ID
		assert.NoError(t, s.Reload())
		assert.NotEqual(t, first, s.Snapshot().ID)
	})

	t.Run("a reload notification is published", func(t *testing.T) {
		bus := event_bus.NewEventBus()
		var got *event_bus.CatalogReloadedData
		bus.Subscribe(event_bus.CatalogReloaded, func(e event_bus.Event) error {
			data := e.Data.(event_bus.CatalogReloadedData)
			got = &data
			return nil
		})
		clock := &utils.MockClock{FixedNow: testNow}
		s := NewService(&StubLoader{Events: []event.Event{{Date: "16.11", Title: "Концерт"}}},
			geocode.NewStaticResolver(nil), clock, bus)

		assert.NoError(t, s.Reload())
		assert.NotNil(t, got)
		assert.Equal(t, 1, got.EventCount)
	})

	t.Run("loader failure keeps the previous snapshot", func(t *testing.T) {
		loader := &StubLoader{Events: []event.Event{{Date: "16.11", Title: "Концерт"}}}
		clock := &utils.MockClock{FixedNow: testNow}
		s := NewService(loader, geocode.NewStaticResolver(nil), clock, nil)
		assert.NoError(t, s.Reload())

		loader.Err = fmt.Errorf("boom")
		assert.Error(t, s.Reload())

		events, err := s.Events()
		assert.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestViews(t *testing.T) {
	load := func(t *testing.T) *Service {
		s := testService([]event.Event{
			{Date: "15.11", Title: "Сегодняшний концерт", Time: "19:00-23:00"},
			{Date: "15.11", Title: "Утренник", Time: "09:00-11:00"},
			{Date: "16.11", Title: "Завтрашняя ярмарка"},
			{Date: "18.11", Title: "Лекция в понедельник"},
			{Date: "10.11", Title: "Прошедшее"},
		})
		assert.NoError(t, s.Reload())
		return s
	}

	t.Run("upcoming view sections today, tomorrow, weekday", func(t *testing.T) {
		sections, err := load(t).Upcoming()
		assert.NoError(t, err)
		assert.Len(t, sections, 3)
		assert.Equal(t, "Сегодня", sections[0].Title)
		// The morning event ended 11:00, within the 6h grace window at noon.
		assert.Len(t, sections[0].Events, 2)
		assert.Equal(t, "Завтра", sections[1].Title)
		assert.Equal(t, "Понедельник", sections[2].Title)
	})

	t.Run("archive view is most recent first and excludes upcoming", func(t *testing.T) {
		archive, err := load(t).Archive()
		assert.NoError(t, err)
		assert.Len(t, archive, 2)
		assert.Equal(t, "Утренник", archive[0].Title)
		assert.Equal(t, "Прошедшее", archive[1].Title)
	})

	t.Run("search matches transliterated queries over the snapshot", func(t *testing.T) {
		matches, err := load(t).Search("lektsiya")
		assert.NoError(t, err)
		assert.Len(t, matches, 1)
		assert.Equal(t, "Лекция в понедельник", matches[0].Title)
	})

	t.Run("find by id resolves share links", func(t *testing.T) {
		s := load(t)
		events, _ := s.Events()
		found, err := s.FindByID(events[0].ID)
		assert.NoError(t, err)
		assert.Equal(t, events[0].Title, found.Title)

		_, err = s.FindByID("e00000000")
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("every view reports the not-loaded state before the first reload", func(t *testing.T) {
		s := testService(nil)
		_, err := s.Events()
		assert.ErrorIs(t, err, ErrNotLoaded)
		_, err = s.Upcoming()
		assert.ErrorIs(t, err, ErrNotLoaded)
		_, err = s.Archive()
		assert.ErrorIs(t, err, ErrNotLoaded)
		_, err = s.Search("кафе")
		assert.ErrorIs(t, err, ErrNotLoaded)
		_, err = s.FindByID("e00000000")
		assert.ErrorIs(t, err, ErrNotLoaded)
	})
}

func TestFileLoader(t *testing.T) {
	t.Run("reads the fetcher artifact", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.json")
		payload := `[
			{"id": "e0000002a", "date": "16.11", "title": "Концерт", "location": "Клуб", "lat": 54.71, "lon": 20.45}
		]`
		assert.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

		events, err := NewFileLoader(path).Load()
		assert.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, "Концерт", events[0].Title)
		assert.NotNil(t, events[0].Lat)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := NewFileLoader(filepath.Join(t.TempDir(), "absent.json")).Load()
		assert.Error(t, err)
	})
}
