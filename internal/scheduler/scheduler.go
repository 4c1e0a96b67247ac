// Package scheduler coordinates background synchronization across the
// registered entity stores: one immediate full sync at startup, an
// independent periodic push per store, and an immediate push when
// connectivity returns.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/daydash-app/daydash/internal/backend"
	"github.com/daydash-app/daydash/internal/logging"
)

// Syncer is the store surface the coordinator drives. *syncstore.Store[T]
// implements it.
type Syncer interface {
	Name() string
	SyncFromServer(ctx context.Context) error
	SyncPending(ctx context.Context) error
}

// Connectivity is the online/offline signal the coordinator subscribes to.
// *netx.Watcher implements it.
type Connectivity interface {
	Online() bool
	Subscribe() (<-chan bool, func())
}

// Status is the process-wide indicator of the most recent sync attempt's
// outcome. It drives a UI indicator only; it gates no logic beyond what the
// coordinator itself does.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusSyncing      Status = "syncing"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

type entry struct {
	store    Syncer
	interval time.Duration
}

// Coordinator owns the sync timers. Construct, Register every store, then
// Start. Stop is idempotent and safe to call at any point; no sync operation
// starts after it returns and late completions no longer touch state.
type Coordinator struct {
	auth backend.UserResolver
	conn Connectivity
	log  logging.Logger

	mu      sync.Mutex
	entries []entry
	status  Status
	started bool
	stopped bool
	cancel  context.CancelFunc

	wg sync.WaitGroup
}

func New(auth backend.UserResolver, conn Connectivity, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Coordinator{auth: auth, conn: conn, log: log, status: StatusIdle}
}

// Register adds a store with its push interval. Must be called before Start.
func (c *Coordinator) Register(s Syncer, interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		panic("scheduler: Register after Start")
	}
	c.entries = append(c.entries, entry{store: s, interval: interval})
}

// Status returns the most recent sync outcome.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Start performs one immediate full sync for every registered store, then
// runs each store's periodic push and listens for reconnects. Returns after
// spawning; sync work happens in background goroutines bound to ctx.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	ctx, c.cancel = context.WithCancel(ctx)
	entries := c.entries
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.fullSync(ctx, entries)
	}()

	for _, e := range entries {
		e := e
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.runTicker(ctx, e)
		}()
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.watchConnectivity(ctx, entries)
	}()
}

// Stop cancels every timer and listener and waits for in-flight passes to
// wind down. Idempotent, never blocks forever: operations observe context
// cancellation at their next suspension point.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// fullSync runs the startup sequence: for every store, pull then push, so
// pending items reconcile against the freshest remote baseline. Stores sync
// in parallel; within one store the two steps are sequential.
func (c *Coordinator) fullSync(ctx context.Context, entries []entry) {
	if _, err := c.auth.UserID(ctx); err != nil {
		c.setStatus(ctx, StatusDisconnected)
		return
	}
	c.setStatus(ctx, StatusSyncing)

	var wg sync.WaitGroup
	errCh := make(chan error, len(entries))
	for _, e := range entries {
		e := e
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := e.store.SyncFromServer(ctx); err != nil {
				c.log.Warn(ctx, "pull failed", "store", e.store.Name(), "err", err)
				errCh <- err
				return
			}
			if err := e.store.SyncPending(ctx); err != nil {
				c.log.Warn(ctx, "push failed", "store", e.store.Name(), "err", err)
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		c.setStatus(ctx, StatusError)
		return
	}
	c.setStatus(ctx, StatusConnected)
}

// runTicker pushes one store's pending items every interval. Pull happens
// only in the startup full sync and on explicit demand.
func (c *Coordinator) runTicker(ctx context.Context, e entry) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.push(ctx, e)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Coordinator) push(ctx context.Context, e entry) {
	if _, err := c.auth.UserID(ctx); err != nil {
		c.setStatus(ctx, StatusDisconnected)
		return
	}
	c.setStatus(ctx, StatusSyncing)
	if err := e.store.SyncPending(ctx); err != nil {
		c.log.Warn(ctx, "push failed", "store", e.store.Name(), "err", err)
		c.setStatus(ctx, StatusError)
		return
	}
	c.setStatus(ctx, StatusConnected)
}

// watchConnectivity pushes every store as soon as the connection comes back,
// independent of timer phase.
func (c *Coordinator) watchConnectivity(ctx context.Context, entries []entry) {
	ch, cancel := c.conn.Subscribe()
	defer cancel()

	for {
		select {
		case online, ok := <-ch:
			if !ok {
				return
			}
			if !online {
				c.setStatus(ctx, StatusDisconnected)
				continue
			}
			c.log.Info(ctx, "connection restored, pushing pending changes")
			for _, e := range entries {
				c.push(ctx, e)
			}
		case <-ctx.Done():
			return
		}
	}
}

// setStatus is a no-op after teardown so a dangling completion cannot mutate
// state post-Stop.
func (c *Coordinator) setStatus(ctx context.Context, st Status) {
	if ctx.Err() != nil {
		return
	}
	c.mu.Lock()
	if !c.stopped {
		c.status = st
	}
	c.mu.Unlock()
}
