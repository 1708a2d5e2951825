package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dineshkummarc/oge/internal/config"
	"github.com/dineshkummarc/oge/internal/core/observability/log"
	"github.com/dineshkummarc/oge/internal/injector"
)

func main() {
	path := flag.String("config", "", "path to a YAML scenario file")
	flag.Parse()

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
	}

	srv, err := injector.InitializeServer(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building server:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Provide().Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = srv.Run(ctx); err != nil {
		log.Provide().Error("server failed", log.Error(err))
		os.Exit(1)
	}
}
