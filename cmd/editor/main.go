package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/buildinfo"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/client/cli"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/client/config"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
