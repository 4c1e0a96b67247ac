package cli

import (
	"context"
	"fmt"
	"sort"
)

// sync runs a manual pull-then-push across every store, outside the
// coordinator's regular schedule.
func (a *App) sync(ctx context.Context) {
	for _, s := range a.app.Stores.All() {
		if err := s.SyncFromServer(ctx); err != nil {
			fmt.Printf("%s: pull failed: %s\n", s.Name(), err.Error())
			continue
		}
		if err := s.SyncPending(ctx); err != nil {
			fmt.Printf("%s: push failed: %s\n", s.Name(), err.Error())
			continue
		}
		fmt.Printf("%s: ok\n", s.Name())
	}
}

func (a *App) status() {
	online := "offline"
	if a.app.Watcher.Online() {
		online = "online"
	}
	fmt.Printf("connection: %s\n", online)
	fmt.Printf("scheduler: %s\n", a.app.Coordinator.Status())

	counts := a.app.Stores.PendingCounts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if counts[name] > 0 {
			fmt.Printf("%s: %d pending\n", name, counts[name])
		}
	}
}

// purge permanently deletes a task, locally and remotely.
func (a *App) purgeTask(ctx context.Context, id string) {
	if err := a.app.Stores.Tasks.Purge(ctx, id); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Purged:", id)
}
