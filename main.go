// @title simpledrill API
// @version 1.0
// @description Backend for the simpledrill quiz application: invite-based
// @description registration, a start test, topic drills and a final test.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"simpledrill_backend/internal/app"
	"simpledrill_backend/internal/config"
	"simpledrill_backend/pkg/configwatcher"
	"simpledrill_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migration and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration completed, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		// The running app keeps its startup snapshot; request handlers read
		// it concurrently and must never observe a partial write. Values
		// meant to move at runtime go through viper on every call, which
		// the reload above has already refreshed.
		logger.Log.Info("Config reloaded",
			zap.Int("repetition_target", newCfg.Drill.RepetitionTarget))
	})

	application.Run()
}
