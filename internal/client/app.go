// Package client wires the sync engine together for the client process: one
// explicitly constructed store per entity type held in a registry, a shared
// session and table client, the connectivity watcher, and the sync
// coordinator.
package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/daydash-app/daydash/internal/backend"
	"github.com/daydash-app/daydash/internal/client/config"
	"github.com/daydash-app/daydash/internal/gateway"
	"github.com/daydash-app/daydash/internal/localstore"
	"github.com/daydash-app/daydash/internal/logging"
	"github.com/daydash-app/daydash/internal/model"
	"github.com/daydash-app/daydash/internal/netx"
	"github.com/daydash-app/daydash/internal/scheduler"
	"github.com/daydash-app/daydash/internal/syncstore"

	_ "modernc.org/sqlite"
)

// Stores is the application-level registry: one synced store per entity
// collection, constructed once at startup and passed by reference.
type Stores struct {
	Tasks     *syncstore.Store[*model.Task]
	Columns   *syncstore.Store[*model.Column]
	Notes     *syncstore.Store[*model.Note]
	Locations *syncstore.Store[*model.Location]
	Tags      *syncstore.Store[*model.Tag]
	Calendars *syncstore.Store[*model.Calendar]
	MapViews  *syncstore.Store[*model.MapView]
	Files     *syncstore.Store[*model.FileRef]
}

// App owns the client-side lifecycle: local database, session, stores,
// connectivity watcher, and the sync coordinator.
type App struct {
	Config      *config.Config
	Session     *backend.Session
	Stores      *Stores
	Watcher     *netx.Watcher
	Coordinator *scheduler.Coordinator

	db  *sql.DB
	log logging.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localstore.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing local database: %w", err)
	}

	storage := localstore.NewSQLiteStorage(db)
	keys := localstore.NewKeyBuilder(cfg.StorageNamespace, cfg.StorageVersion)

	session := backend.NewSession(cfg.ServerEndpointAddr, backend.NewKeyringTokenStore("daydash"))
	rows := backend.NewHTTPTableClient(cfg.ServerEndpointAddr, session.Token)

	deps := storeDeps{rows: rows, auth: session, storage: storage, keys: keys, log: log}

	stores := &Stores{}
	if stores.Tasks, err = buildStore(ctx, model.TaskSchema, deps); err != nil {
		return nil, err
	}
	if stores.Columns, err = buildStore(ctx, model.ColumnSchema, deps); err != nil {
		return nil, err
	}
	if stores.Notes, err = buildStore(ctx, model.NoteSchema, deps); err != nil {
		return nil, err
	}
	if stores.Locations, err = buildStore(ctx, model.LocationSchema, deps); err != nil {
		return nil, err
	}
	if stores.Tags, err = buildStore(ctx, model.TagSchema, deps); err != nil {
		return nil, err
	}
	if stores.Calendars, err = buildStore(ctx, model.CalendarSchema, deps); err != nil {
		return nil, err
	}
	if stores.MapViews, err = buildStore(ctx, model.MapViewSchema, deps); err != nil {
		return nil, err
	}
	if stores.Files, err = buildStore(ctx, model.FileRefSchema, deps); err != nil {
		return nil, err
	}

	watcher := netx.NewWatcher(cfg.ServerEndpointAddr+"/healthz", cfg.OnlineCheckInterval)

	coord := scheduler.New(session, watcher, log)
	for _, s := range stores.All() {
		coord.Register(s, cfg.SyncInterval)
	}

	return &App{
		Config:      cfg,
		Session:     session,
		Stores:      stores,
		Watcher:     watcher,
		Coordinator: coord,
		db:          db,
		log:         log,
	}, nil
}

// Start launches the connectivity watcher and the sync coordinator. Both
// stop when ctx is cancelled or Close is called.
func (a *App) Start(ctx context.Context) {
	go a.Watcher.Run(ctx)
	a.Coordinator.Start(ctx)
}

// Close tears down the coordinator and releases the local database.
func (a *App) Close() error {
	a.Coordinator.Stop()
	return a.db.Close()
}

type storeDeps struct {
	rows    backend.TableClient
	auth    backend.UserResolver
	storage localstore.Storage
	keys    *localstore.KeyBuilder
	log     logging.Logger
}

func buildStore[T model.Entity](ctx context.Context, schema *model.Schema[T], deps storeDeps) (*syncstore.Store[T], error) {
	s, err := syncstore.New(ctx, syncstore.Options[T]{
		Schema:  schema,
		Gateway: gateway.New(schema, deps.rows, deps.auth),
		Storage: deps.storage,
		Keys:    deps.keys,
		Logger:  deps.log,
	})
	if err != nil {
		return nil, fmt.Errorf("error building %s store: %w", schema.Table, err)
	}
	return s, nil
}

// All returns the stores in registration order for the coordinator and for
// manual sync commands.
func (s *Stores) All() []scheduler.Syncer {
	return []scheduler.Syncer{
		s.Tasks, s.Columns, s.Notes, s.Locations,
		s.Tags, s.Calendars, s.MapViews, s.Files,
	}
}

// PendingCounts reports how many unsynced records each store currently holds.
func (s *Stores) PendingCounts() map[string]int {
	return map[string]int{
		s.Tasks.Name():     len(s.Tasks.Pending()),
		s.Columns.Name():   len(s.Columns.Pending()),
		s.Notes.Name():     len(s.Notes.Pending()),
		s.Locations.Name(): len(s.Locations.Pending()),
		s.Tags.Name():      len(s.Tags.Pending()),
		s.Calendars.Name(): len(s.Calendars.Pending()),
		s.MapViews.Name():  len(s.MapViews.Pending()),
		s.Files.Name():     len(s.Files.Pending()),
	}
}
