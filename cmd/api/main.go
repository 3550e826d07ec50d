// Package main runs the recipebox JSON API
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/container"
)

const stopTimeout = 45 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a config file (defaults to ./config.yaml when present)")
	flag.Parse()

	app := container.New(*configPath)

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// SIGINT, SIGTERM or a fatal server error
	sig := <-app.Wait()

	stopCtx, stop := context.WithTimeout(context.Background(), stopTimeout)
	defer stop()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
		os.Exit(1)
	}
	os.Exit(sig.ExitCode)
}
