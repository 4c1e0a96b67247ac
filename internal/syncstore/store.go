// Package syncstore implements the offline-first synced entity store: a
// reactive in-memory collection persisted locally on every mutation, with an
// implicit pending queue (IsSynced=false on the item itself) reconciled
// against the backend by recency.
package syncstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/daydash-app/daydash/internal/common"
	"github.com/daydash-app/daydash/internal/localstore"
	"github.com/daydash-app/daydash/internal/logging"
	"github.com/daydash-app/daydash/internal/model"
)

// Gateway is the remote surface the store pushes to and pulls from.
// *gateway.Gateway[T] implements it; tests substitute fakes.
type Gateway[T model.Entity] interface {
	FetchAll(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, e T) (T, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
}

// Options configures a Store.
type Options[T model.Entity] struct {
	Schema  *model.Schema[T]
	Gateway Gateway[T]
	Storage localstore.Storage
	Keys    *localstore.KeyBuilder
	Logger  logging.Logger

	// Now and NewID exist for tests; nil means time.Now / model.NewID.
	Now   func() time.Time
	NewID func() string
}

// Store is the generic synced entity store: one instance per entity type.
//
// Local mutations (Add, Update, Remove) always succeed locally and leave the
// remote write pending; only validation errors are returned synchronously.
// SyncPending and SyncFromServer record remote failures in LastError and
// always leave the collection consistent; callers may ignore their returned
// errors and poll status instead.
type Store[T model.Entity] struct {
	schema  *model.Schema[T]
	gw      Gateway[T]
	storage localstore.Storage
	key     string
	log     logging.Logger
	now     func() time.Time
	newID   func() string

	mu      sync.Mutex
	items   []T
	loading bool
	lastErr error
	subs    map[int]chan struct{}
	nextSub int

	// serializes sync passes; a second SyncPending while one is in flight
	// is a no-op
	syncMu sync.Mutex
}

// New builds the store, derives its storage key, and rehydrates previously
// persisted state. Fails on an invalid key (empty table name) or unreadable
// persisted state.
func New[T model.Entity](ctx context.Context, opts Options[T]) (*Store[T], error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = model.NewID
	}

	key, err := opts.Keys.Key(opts.Schema.Table)
	if err != nil {
		return nil, err
	}

	s := &Store[T]{
		schema:  opts.Schema,
		gw:      opts.Gateway,
		storage: opts.Storage,
		key:     key,
		log:     opts.Logger.With("store", opts.Schema.Table),
		now:     opts.Now,
		newID:   opts.NewID,
		subs:    make(map[int]chan struct{}),
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the entity collection name (the backend table).
func (s *Store[T]) Name() string { return s.schema.Table }

// Items returns a snapshot of the collection. Entities are cloned; callers
// may not mutate store state directly.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	for i, e := range s.items {
		out[i] = s.schema.Clone(e)
	}
	return out
}

// Get returns a clone of the entity with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.schema.Clone(s.items[i]), true
	}
	var zero T
	return zero, false
}

// Pending returns clones of every item not yet confirmed remotely.
func (s *Store[T]) Pending() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []T
	for _, e := range s.items {
		if !e.Meta().IsSynced {
			out = append(out, s.schema.Clone(e))
		}
	}
	return out
}

// IsLoading reports whether a pull from the server is in flight.
func (s *Store[T]) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent sync failure, or nil. Remote errors
// never surface through Add/Update/Remove.
func (s *Store[T]) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers for change notifications. The channel receives a
// coalesced signal after every mutation or merge. The returned cancel
// function detaches the subscription.
func (s *Store[T]) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Add validates the patch against the schema's required fields, applies
// defaults for omitted optional fields, and appends a fresh pending entity.
// Returns the new id immediately; the remote write happens on the next sync
// pass.
func (s *Store[T]) Add(ctx context.Context, p model.Patch) (string, error) {
	if missing := s.schema.Missing(p); len(missing) > 0 {
		return "", &common.ValidationError{Missing: missing}
	}

	e := s.schema.New()
	if err := s.schema.Apply(e, s.schema.WithDefaults(p)); err != nil {
		return "", err
	}

	meta := e.Meta()
	meta.ID = s.newID()
	now := s.now()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	meta.IsSynced = false

	s.mu.Lock()
	s.items = append(s.items, e)
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()

	return meta.ID, nil
}

// Update merges the provided fields over the existing entity (shallow: only
// named top-level fields change), bumps UpdatedAt, and marks the record
// pending. The patch must carry the target id.
func (s *Store[T]) Update(ctx context.Context, p model.Patch) error {
	id, _ := p["id"].(string)
	if id == "" {
		return common.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return common.ErrNotFound
	}

	// merge into a clone first so a malformed patch leaves the item intact
	next := s.schema.Clone(s.items[i])
	if err := s.schema.Apply(next, p); err != nil {
		return err
	}

	meta := next.Meta()
	now := s.now()
	// UpdatedAt is monotonically non-decreasing per record
	if !now.After(meta.UpdatedAt) {
		now = meta.UpdatedAt.Add(time.Nanosecond)
	}
	meta.UpdatedAt = now
	meta.IsSynced = false

	s.items[i] = next
	s.persistLocked(ctx)
	s.notifyLocked()
	return nil
}

// Remove soft-deletes: equivalent to Update({id, trashed: true}). The record
// keeps synchronizing until hard-deleted.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	return s.Update(ctx, model.Patch{"id": id, "trashed": true})
}

// Purge hard-deletes a record: remote row removed (when one may exist), local
// copy dropped. Reserved for records that never should have existed
// remotely; normal flows use Remove.
func (s *Store[T]) Purge(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return common.ErrNotFound
	}
	s.mu.Unlock()

	// the row may or may not exist remotely; an absent row is already purged
	if err := s.gw.HardDelete(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.persistLocked(ctx)
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// SyncPending pushes every pending item through the gateway. One item's
// failure does not abort the batch: failed items stay pending, successes are
// replaced by the backend's canonical form. A call while another pass is in
// flight returns immediately without duplicating upserts. The returned error
// aggregates per-item failures and is also recorded in LastError.
func (s *Store[T]) SyncPending(ctx context.Context) error {
	if !s.syncMu.TryLock() {
		return nil
	}
	defer s.syncMu.Unlock()

	// snapshot the outbox; items turning pending after this point are
	// picked up by the next pass
	pending := s.Pending()
	if len(pending) == 0 {
		return nil
	}

	var errs []error
	for _, item := range pending {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		snapshotAt := item.Meta().UpdatedAt

		canonical, err := s.gw.Upsert(ctx, item)
		if err != nil {
			s.log.Warn(ctx, "upsert failed", "id", item.Meta().ID, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", item.Meta().ID, err))
			continue
		}

		s.mu.Lock()
		if i := s.indexLocked(item.Meta().ID); i >= 0 {
			current := s.items[i]
			// replace only if the item did not change mid-flight; a newer
			// local edit stays pending for the next pass
			if current.Meta().UpdatedAt.Equal(snapshotAt) {
				s.schema.CopyLocal(current, canonical)
				s.items[i] = canonical
				s.persistLocked(ctx)
			}
		}
		s.mu.Unlock()
	}

	err := errors.Join(errs...)
	s.setErr(err)
	s.notify()
	return err
}

// SyncFromServer pulls the table and merges by recency: for ids on both
// sides the later UpdatedAt wins (local wins ties, so a pending edit is
// never dropped); remote-only ids are added; local-only ids are preserved
// untouched. Client-only fields keep their local values across replacement.
func (s *Store[T]) SyncFromServer(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	remote, err := s.gw.FetchAll(ctx)
	if err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	byID := make(map[string]int, len(s.items))
	for i, e := range s.items {
		byID[e.Meta().ID] = i
	}

	merged := make([]T, 0, len(remote)+len(s.items))
	seen := make(map[string]bool, len(remote))
	for _, r := range remote {
		seen[r.Meta().ID] = true
		i, ok := byID[r.Meta().ID]
		if !ok {
			merged = append(merged, r)
			continue
		}
		local := s.items[i]
		if r.Meta().UpdatedAt.After(local.Meta().UpdatedAt) {
			s.schema.CopyLocal(local, r)
			merged = append(merged, r)
		} else {
			merged = append(merged, local)
		}
	}
	for _, e := range s.items {
		if !seen[e.Meta().ID] {
			merged = append(merged, e)
		}
	}
	s.items = merged
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.setErr(nil)
	s.notify()
	return nil
}

func (s *Store[T]) indexLocked(id string) int {
	for i, e := range s.items {
		if e.Meta().ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the collection through to local storage. Memory stays
// authoritative when the write fails; the failure lands in LastError.
func (s *Store[T]) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.lastErr = err
		s.log.Error(ctx, "marshal collection failed", "err", err)
		return
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		s.lastErr = err
		s.log.Error(ctx, "persist collection failed", "err", err)
	}
}

func (s *Store[T]) load(ctx context.Context) error {
	data, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("rehydrate %s: %w", s.key, err)
	}
	if !ok {
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return fmt.Errorf("rehydrate %s: %w", s.key, err)
	}
	s.items = items
	return nil
}

func (s *Store[T]) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Store[T]) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyLocked()
}

func (s *Store[T]) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
