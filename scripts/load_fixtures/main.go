// Clears quiz content and reloads it from the JSON fixtures directory. Also
// wipes per-person progress, which references the content being replaced.
//
// Usage: go run scripts/load_fixtures/main.go -dir fixtures
package main

import (
	"flag"
	"log"
	"os"

	"simpledrill_backend/internal/config"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/internal/service"
	"simpledrill_backend/pkg/database"
	"simpledrill_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	dir := flag.String("dir", "fixtures", "directory with fixture JSON files")
	flag.Parse()

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	// Redis is optional here: without it the loader simply skips cache
	// invalidation, and entries expire on their own.
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, skipping cache invalidation: %v", err)
		rdb = nil
	}

	contentRepo := repository.NewContentRepository(db, rdb)
	fixtures := service.NewFixtureService(db, contentRepo, nil)

	if err := fixtures.ReloadAll(*dir); err != nil {
		log.Fatalf("fixture load failed: %v", err)
	}
	log.Println("The database was seeded successfully!")
}
