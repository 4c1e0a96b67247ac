package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_StartsOffline(t *testing.T) {
	w := NewWatcher("http://127.0.0.1:0/healthz", time.Second)
	assert.False(t, w.Online())
}

func TestWatcher_DetectsTransitions(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	w := NewWatcher(srv.URL, 10*time.Millisecond)
	ch, cancel := w.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go w.Run(ctx)

	select {
	case online := <-ch:
		assert.True(t, online)
	case <-time.After(time.Second):
		t.Fatal("expected an online notification")
	}
	require.True(t, w.Online())

	healthy.Store(false)
	select {
	case online := <-ch:
		assert.False(t, online)
	case <-time.After(time.Second):
		t.Fatal("expected an offline notification")
	}
	assert.False(t, w.Online())
}

func TestWatcher_NoNotificationWithoutTransition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	w := NewWatcher(srv.URL, 5*time.Millisecond)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go w.Run(ctx)

	// wait for the first (true) transition, then subscribe fresh
	require.Eventually(t, w.Online, time.Second, 5*time.Millisecond)
	ch, cancel := w.Subscribe()
	defer cancel()

	select {
	case <-ch:
		t.Fatal("state did not change, no notification expected")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_SubscribeCancel(t *testing.T) {
	w := NewWatcher("http://127.0.0.1:0/healthz", time.Second)
	_, cancel := w.Subscribe()
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.subs)
}
