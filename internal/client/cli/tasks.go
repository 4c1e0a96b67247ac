package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/daydash-app/daydash/internal/model"
)

func (a *App) listTasks() {
	tasks := a.app.Stores.Tasks.Items()
	if len(tasks) == 0 {
		fmt.Println("No tasks")
		return
	}
	for _, t := range tasks {
		if t.Trashed {
			continue
		}
		mark := " "
		if t.QuantityDone >= t.QuantityTarget {
			mark = "x"
		}
		pending := ""
		if !t.IsSynced {
			pending = " *"
		}
		fmt.Printf("[%s] %s (%d/%d) %s%s\n", mark, t.ID, t.QuantityDone, t.QuantityTarget, t.Title, pending)
	}
}

func (a *App) addTask(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Enter task title", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	id, err := a.app.Stores.Tasks.Add(ctx, model.Patch{"title": title})
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("Added task %s\n", id)
}

func (a *App) doneTask(ctx context.Context, id string) {
	task, ok := a.app.Stores.Tasks.Get(id)
	if !ok {
		fmt.Println("Task not found:", id)
		return
	}

	err := a.app.Stores.Tasks.Update(ctx, model.Patch{
		"id":           id,
		"quantityDone": task.QuantityTarget,
	})
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Println("Done:", task.Title)
}

func (a *App) removeTask(ctx context.Context, id string) {
	if err := a.app.Stores.Tasks.Remove(ctx, id); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Moved to trash:", id)
}
