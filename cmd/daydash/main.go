package main

import (
	"context"
	"log"

	"github.com/daydash-app/daydash/internal/client/cli"
	"github.com/daydash-app/daydash/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
