package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/lexqa/internal/buildinfo"
	"github.com/dmitrijs2005/lexqa/internal/client/cli"
	"github.com/dmitrijs2005/lexqa/internal/client/config"
	"github.com/dmitrijs2005/lexqa/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = app.Close() }()

	app.Run(ctx)

}
