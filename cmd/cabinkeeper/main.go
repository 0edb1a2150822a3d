package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/cabinkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/cabinkeeper/internal/cli"
	"github.com/dmitrijs2005/cabinkeeper/internal/config"
	"github.com/dmitrijs2005/cabinkeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, os.Stdin, os.Stdout, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error(ctx, "run failed", "error", err)
		os.Exit(1)
	}
}
