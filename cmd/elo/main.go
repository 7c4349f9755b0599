package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/brett-phillips/ELO/app"
	"github.com/brett-phillips/ELO/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := &app.App{}
	if err := application.Initialize(ctx, cfg); err != nil {
		_ = application.Close()
		log.Fatalf("Failed to initialize app: %v", err)
	}

	runErr := application.Run(ctx)
	closeErr := application.Close()
	if runErr != nil {
		log.Fatalf("Application stopped with error: %v", runErr)
	}
	if closeErr != nil {
		os.Exit(1)
	}
}
