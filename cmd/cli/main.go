package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/passvault/internal/auth"
	"github.com/dmitrijs2005/passvault/internal/buildinfo"
	"github.com/dmitrijs2005/passvault/internal/client/cli"
	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	provider, err := cli.NewProvider(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	session := auth.NewSessionManager(provider, logger)
	if err := session.Observe(); err != nil {
		log.Fatalf("%v", err)
		return
	}

	app, err := cli.NewApp(ctx, cfg, provider, session, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
