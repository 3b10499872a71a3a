package main

import (
	"log"

	"github.com/Ivanfun/ivan-excel-type-checker/app"
	"github.com/Ivanfun/ivan-excel-type-checker/internal"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/config"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/storage"
	"github.com/Ivanfun/ivan-excel-type-checker/ui"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	store, err := storage.NewOutputStore(cfg.Storage.OutputDir, cfg.Storage.ClearOnStart)
	if err != nil {
		log.Fatalf("Failed to initialize output storage: %v", err)
	}

	service := app.NewReportService(store, logger)
	server := ui.NewServer(service, store, cfg, logger)

	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
