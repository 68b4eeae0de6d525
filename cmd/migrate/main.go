package main

import (
	"context"
	"log"
	"os"

	"staybook/internal/config"
	"staybook/internal/db"
	"staybook/internal/migrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB())
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	version, dirty, err := migrate.Status(ctx, pool)
	if err != nil {
		logger.Fatalf("read schema version: %v", err)
	}
	if dirty {
		logger.Fatalf("schema version %d is dirty", version)
	}
	logger.Printf("migrations applied, schema version %d", version)
}
