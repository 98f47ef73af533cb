package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/moodkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/moodkeeper/internal/client/cli"
	"github.com/dmitrijs2005/moodkeeper/internal/client/config"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(logging.WithPretty(cfg.Pretty), logging.WithDebug(cfg.Debug))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
