package main

import (
	"context"
	"log"
	"net/http"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/conorfennell/arcana/internal/catalog"
	"github.com/conorfennell/arcana/internal/config"
	"github.com/conorfennell/arcana/internal/draw"
	"github.com/conorfennell/arcana/internal/reading"
	"github.com/conorfennell/arcana/internal/storage"
	"github.com/conorfennell/arcana/internal/web"
)

func main() {
	// 1. Define and parse command-line flags; these override file and env.
	flags := flag.NewFlagSet("arcana", flag.ExitOnError)
	configPath := flags.String("config", "", "Path to a YAML config file")
	flags.String("addr", "", "Listen address")
	flags.String("db", "", "Path to the SQLite database file")
	flags.String("deck.file", "", "Path to a deck JSON file")
	flags.String("deck.git", "", "Git repository URL containing deck.json")
	flags.String("gateway.base_url", "", "Chat-completion API base URL")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Load the deck catalog. Nothing works without it, so fail loudly.
	cat, err := catalog.Load(context.Background(), catalog.Source{
		File:     cfg.Deck.File,
		GitURL:   cfg.Deck.Git,
		CacheDir: cfg.Deck.CacheDir,
	})
	if err != nil {
		log.Fatalf("Failed to load deck catalog: %v", err)
	}
	log.Printf("Deck catalog loaded: %d cards", cat.Len())

	// 3. Open the database
	db, err := storage.Open(cfg.DB, cat)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.Printf("Database opened successfully: %s", cfg.DB)

	// 4. Wire the reading gateway; without a base URL draws still work but
	// entries keep a null reading.
	var readings web.ReadingClient
	if cfg.Gateway.BaseURL != "" {
		readings = reading.NewClient(reading.Config{
			BaseURL:     cfg.Gateway.BaseURL,
			APIKey:      cfg.Gateway.APIKey,
			Model:       cfg.Gateway.Model,
			Timeout:     cfg.Gateway.Timeout,
			MaxAttempts: cfg.Gateway.MaxAttempts,
		})
	} else {
		log.Printf("No gateway base URL configured; AI readings disabled")
	}

	server := web.NewServer(db, cat, draw.New(cat), readings)

	log.Printf("Listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
