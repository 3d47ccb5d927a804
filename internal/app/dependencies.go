package app

import (
	"github.com/meowafisha/meowafisha/internal/config"
	"github.com/meowafisha/meowafisha/internal/event_bus"
	"github.com/meowafisha/meowafisha/internal/utils"
	"github.com/meowafisha/meowafisha/pkg/catalog"
	"github.com/meowafisha/meowafisha/pkg/geocode"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus      *event_bus.EventBus
	Resolver geocode.Resolver

	CatalogService *catalog.Service
	CatalogHandler *catalog.Handler
	CatalogWatcher *catalog.Watcher

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and
// handlers. A missing geocode cache degrades to a resolver that never
// matches; events then simply carry no coordinates.
func BuildDependencies(cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	resolver, err := geocode.NewResolver(cfg.Data.GeocodeCacheFile)
	if err != nil {
		log.Warnf("geocode cache unavailable: %v", err)
		resolver = geocode.NewStaticResolver(nil)
	}
	deps.Resolver = resolver

	loader := catalog.NewFileLoader(cfg.Data.EventsFile)
	deps.CatalogService = catalog.NewService(loader, deps.Resolver, deps.Clock, deps.Bus)
	deps.CatalogHandler = catalog.NewHandler(deps.CatalogService, deps.Clock)

	watchFile := ""
	if cfg.Data.WatchFile {
		watchFile = cfg.Data.EventsFile
	}
	deps.CatalogWatcher = catalog.NewWatcher(deps.CatalogService, watchFile, cfg.Data.ReloadCron)

	deps.Bus.Subscribe(event_bus.CatalogReloaded, func(e event_bus.Event) error {
		if data, ok := e.Data.(event_bus.CatalogReloadedData); ok {
			log.Debugf("snapshot %s active with %d events", data.SnapshotID, data.EventCount)
		}
		return nil
	})

	return deps
}
