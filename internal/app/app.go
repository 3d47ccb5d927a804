package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/meowafisha/meowafisha/internal/config"
	"github.com/meowafisha/meowafisha/internal/rest"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, catalog, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	deps := BuildDependencies(cfg)

	SetupMiddleware(r, deps, cfg)
	RegisterRoutes(r, deps, cfg)

	if cfg.Frontend.Enabled {
		frontend := rest.NewFrontendHandler(cfg.Frontend.Dir, "index.html")
		r.PathPrefix("/").Handler(frontend)
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}, nil
}

// Run loads the initial snapshot, starts the reload triggers, and
// blocks serving HTTP. A failed initial load is not fatal: the server
// answers with the "not loaded" state until a reload succeeds.
func (a *Application) Run() error {
	if err := a.deps.CatalogService.Reload(); err != nil {
		log.Errorf("initial catalog load failed: %v", err)
	}
	if err := a.deps.CatalogWatcher.Start(); err != nil {
		return err
	}
	defer a.deps.CatalogWatcher.Stop()

	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
