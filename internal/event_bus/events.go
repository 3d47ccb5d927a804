package event_bus

import "time"

const CatalogReloaded EventType = "catalog.reloaded"

// CatalogReloadedData is published after every successful load cycle.
type CatalogReloadedData struct {
	SnapshotID string
	EventCount int
	LoadedAt   time.Time
}
