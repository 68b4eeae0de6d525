package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"staybook/internal/config"
	"staybook/internal/db"
	"staybook/internal/importer"
	cityrepo "staybook/internal/repository/city"
	hotelrepo "staybook/internal/repository/hotel"
	roomrepo "staybook/internal/repository/room"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to hotel catalog CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DB())
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f,
		cityrepo.NewPostgres(pool),
		hotelrepo.NewPostgres(pool, nil),
		roomrepo.NewPostgres(pool, nil),
	)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d rooms in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
