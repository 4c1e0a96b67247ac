// Package netx provides server reachability probing with change
// notifications. Consumers subscribe to transitions; nobody polls the
// network themselves.
package netx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Watcher probes an HTTP endpoint on an interval and reports online/offline
// transitions to subscribers.
type Watcher struct {
	url      string
	interval time.Duration
	http     *http.Client

	mu     sync.Mutex
	online bool
	subs   map[int]chan bool
	next   int
}

// NewWatcher builds a watcher probing url (expected to answer 2xx on GET)
// every interval. Run must be started for state to change.
func NewWatcher(url string, interval time.Duration) *Watcher {
	return &Watcher{
		url:      url,
		interval: interval,
		http:     &http.Client{Timeout: 3 * time.Second},
		subs:     make(map[int]chan bool),
	}
}

// Online returns the last observed state. Starts false until the first
// successful probe.
func (w *Watcher) Online() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.online
}

// Subscribe registers for transition notifications. Each value sent is the
// new state; sends never block (slow subscribers miss intermediate flips,
// not the latest state). The cancel function detaches the subscription.
func (w *Watcher) Subscribe() (<-chan bool, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.next
	w.next++
	ch := make(chan bool, 1)
	w.subs[id] = ch
	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// Run probes until ctx is done. The first probe fires immediately.
func (w *Watcher) Run(ctx context.Context) {
	w.probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) probe(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.url, nil)
	if err != nil {
		w.set(false)
		return
	}
	resp, err := w.http.Do(req)
	if err != nil {
		w.set(false)
		return
	}
	resp.Body.Close()
	w.set(resp.StatusCode >= 200 && resp.StatusCode < 300)
}

// set records the new state and, on a transition, notifies subscribers.
func (w *Watcher) set(online bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.online == online {
		return
	}
	w.online = online
	for _, ch := range w.subs {
		select {
		case ch <- online:
		default:
			// drop the stale value so the latest state is always delivered
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- online:
			default:
			}
		}
	}
}
