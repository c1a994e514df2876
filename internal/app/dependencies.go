package app

import (
	"context"
	"fmt"

	"github.com/klokku/gridplanner/internal/config"
	"github.com/klokku/gridplanner/internal/database"
	"github.com/klokku/gridplanner/internal/event_bus"
	"github.com/klokku/gridplanner/internal/utils"
	"github.com/klokku/gridplanner/pkg/export"
	"github.com/klokku/gridplanner/pkg/geometry"
	"github.com/klokku/gridplanner/pkg/grid"
	"github.com/klokku/gridplanner/pkg/interaction"
	"github.com/klokku/gridplanner/pkg/period"
	"github.com/klokku/gridplanner/pkg/persistence"
	"github.com/klokku/gridplanner/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	Repository *persistence.Repository
	Store      *schedule.Store

	Navigator     *period.Navigator
	PeriodHandler *period.Handler

	Controller         *interaction.Controller
	InteractionHandler *interaction.Handler

	GridHandler   *grid.Handler
	ExportHandler *export.Handler

	unsubscribe func()
}

// BuildDependencies restores the persisted state from kv and wires all
// services and handlers around it.
func BuildDependencies(ctx context.Context, cfg config.Application, kv persistence.KeyValueStore, clock utils.Clock) (*Dependencies, error) {
	scale, err := geometry.NewHourScale(cfg.Grid.HourWidthPx)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{}
	deps.Clock = clock
	deps.EventBus = event_bus.NewEventBus()

	deps.Repository = persistence.NewRepository(kv)
	deps.Store = schedule.NewStore()
	deps.Store.Replace(deps.Repository.LoadEvents(ctx))

	deps.Navigator = period.NewNavigator(clock, deps.EventBus, deps.Repository.LoadSelectedDate(ctx))
	deps.PeriodHandler = period.NewHandler(deps.Navigator)

	deps.Controller = interaction.NewController(deps.Store, scale, cfg.Grid.Resources, deps.Navigator, deps.EventBus, clock)
	deps.InteractionHandler = interaction.NewHandler(deps.Controller, deps.Navigator)

	deps.GridHandler = grid.NewHandler(deps.Controller, deps.Navigator, clock, grid.Layout{
		Resources:    cfg.Grid.Resources,
		HourWidthPx:  cfg.Grid.HourWidthPx,
		CellWidthPx:  cfg.Grid.CellWidthPx,
		CellHeightPx: cfg.Grid.CellHeightPx,
	})
	deps.ExportHandler = export.NewHandler(deps.Store, deps.Navigator, clock, cfg.Grid.Resources)

	deps.unsubscribe = deps.Repository.Subscribe(deps.EventBus, deps.Store.All)

	log.Infof("Restored %d events, selected date %s",
		deps.Store.Len(), deps.Navigator.Selected().Format("2006-01-02"))
	return deps, nil
}

// Close stops persisting changes.
func (d *Dependencies) Close() {
	if d.unsubscribe != nil {
		d.unsubscribe()
	}
}

// OpenStore builds the key-value backend named by storage.backend. The returned
// function releases its connections.
func OpenStore(ctx context.Context, cfg config.Application) (persistence.KeyValueStore, func(), error) {
	log.Infof("Using %s storage backend", cfg.Storage.Backend)

	switch cfg.Storage.Backend {
	case config.BackendFile:
		store, err := persistence.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case config.BackendPostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(cfg.Database); err != nil {
			db.Close()
			return nil, nil, err
		}
		return persistence.NewPostgresStore(db), db.Close, nil

	case config.BackendRedis:
		store, err := persistence.NewRedisStore(ctx, cfg.Storage.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Errorf("failed to close redis client: %v", err)
			}
		}, nil

	case config.BackendMemory:
		log.Warn("Memory storage backend selected, the schedule will not survive a restart")
		return persistence.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
