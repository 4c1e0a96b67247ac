// Package cli implements the interactive daydash client: a small REPL over
// the synced entity stores, with commands for accounts, tasks, notes and
// synchronization.
package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/daydash-app/daydash/internal/client"
	"github.com/daydash-app/daydash/internal/client/config"
	"github.com/daydash-app/daydash/internal/logging"
)

type App struct {
	config *config.Config
	app    *client.App
	reader *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	core, err := client.NewApp(ctx, cfg, logging.NewNopLogger())
	if err != nil {
		log.Printf("error initializing client: %s", err.Error())
		return nil, err
	}

	return &App{config: cfg, app: core, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	_, err := a.app.Session.UserID(context.Background())
	return err == nil
}

func (a *App) Run(ctx context.Context) {
	a.app.Start(ctx)
	defer a.app.Close()
	a.Root(ctx)
}
