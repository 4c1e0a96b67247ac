package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/daydash-app/daydash/internal/model"
)

func (a *App) listNotes() {
	notes := a.app.Stores.Notes.Items()
	if len(notes) == 0 {
		fmt.Println("No notes")
		return
	}
	for _, n := range notes {
		if n.Trashed {
			continue
		}
		pin := ""
		if n.Pinned {
			pin = " (pinned)"
		}
		pending := ""
		if !n.IsSynced {
			pending = " *"
		}
		fmt.Printf("%s %s%s%s\n", n.ID, n.Title, pin, pending)
	}
}

func (a *App) addNote(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Enter note title", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	body, err := GetSimpleText(a.reader, "Enter note text", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	id, err := a.app.Stores.Notes.Add(ctx, model.Patch{"title": title, "body": body})
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("Added note %s\n", id)
}
