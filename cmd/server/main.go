package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookshelf/internal/assets"
	"bookshelf/internal/config"
	"bookshelf/internal/progress"
	"bookshelf/internal/readinglist"
	"bookshelf/internal/shared"
	"bookshelf/internal/websocket"
	"bookshelf/pkg/database"
	"bookshelf/pkg/models"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		shared.NewLogger(nil).Fatal("load config", "err", err)
	}

	logger := shared.NewLogger(os.Stderr)
	shared.SetLogLevel(logger, cfg.LogLevel)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", "path", cfg.DBPath, "err", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("migrate", "err", err)
	}

	// Seed the catalog if a books.json is present (generated by
	// cmd/tools/fetch_openlibrary).
	if _, err := os.Stat(cfg.SeedPath); err == nil {
		books, err := database.LoadBooksFromJSON(cfg.SeedPath)
		if err != nil {
			logger.Fatal("load seed file", "path", cfg.SeedPath, "err", err)
		}
		n, err := database.SeedBooks(db, books)
		if err != nil {
			logger.Fatal("seed books", "err", err)
		}
		logger.Info("seeded books", "inserted", n, "path", cfg.SeedPath)
	}

	files, err := assets.NewDiskStore(cfg.AssetDir)
	if err != nil {
		logger.Fatal("init asset store", "dir", cfg.AssetDir, "err", err)
	}

	events := make(chan models.ProgressUpdate, 100)
	hub := websocket.NewFeedHub(events, logger)
	go hub.Run()

	svc := progress.NewService(
		progress.NewSQLiteStore(db),
		readinglist.NewSQLiteStore(db),
		events,
		logger,
	)

	a := &app{
		db:     db,
		cfg:    cfg,
		logger: logger,
		svc:    svc,
		lists:  readinglist.NewSQLiteStore(db),
		files:  files,
		hub:    hub,
	}

	logger.Info("HTTP API listening", "addr", cfg.HTTPAddr)
	if err := a.newRouter().Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server exited", "err", err)
	}
}
