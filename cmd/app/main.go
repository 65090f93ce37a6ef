package main

import (
	"context"
	"flag"
	"log"
	"os"

	"PredEval/internal/di"
	"PredEval/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	inputPath := flag.String("input", "", "prediction log CSV (overrides config input)")
	serve := flag.Bool("serve", false, "keep the evaluation available over HTTP")
	flag.Parse()

	// Load config; a missing file is fine when -input names the log directly.
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		if *inputPath == "" {
			log.Fatalf("config load failed: %v", err)
		}
		cfg = config.Default()
	}
	if *inputPath != "" {
		cfg.Input.Source = "csv"
		cfg.Input.Path = *inputPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if *serve {
		if err := app.Serve(); err != nil {
			log.Printf("app error: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := app.RunOnce(context.Background(), os.Stdout); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
