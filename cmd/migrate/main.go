package main

import (
	"flag"
	"log"

	"quizdeck/internal/config"
	"quizdeck/internal/database"
	"quizdeck/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "revert every applied migration instead of applying pending ones")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer func() { _ = l.Sync() }()

	path := cfg.DBPath()
	if *down {
		if err := database.Rollback(path); err != nil {
			l.Fatal("Failed to roll back migrations", zap.String("path", path), zap.Error(err))
		}
		return
	}
	if err := database.Migrate(path); err != nil {
		l.Fatal("Failed to run migrations", zap.String("path", path), zap.Error(err))
	}
}
