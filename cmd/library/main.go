package main

import (
	"log"
	"os"

	v1 "go_library/api/v1"
	"go_library/internal/auth"
	"go_library/internal/cache"
	"go_library/internal/config"
	"go_library/internal/db"
	"go_library/internal/fine"
	"go_library/internal/service"
	"go_library/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Configuration loaded")

	// 2. Initialize MySQL
	if err := db.InitMySQL(cfg.MySQL.DSN); err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(db.GetDB()); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
			os.Exit(1)
		}
	}

	// 3. Initialize Redis
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	// 4. Initialize JWT
	auth.InitJWT(cfg.JWT.Secret)

	sessions := session.NewStore(cache.Client)

	// 5. Start fine sweep worker
	if cfg.FineSweeper.Enabled {
		worker := fine.NewWorker(&fine.WorkerConfig{
			Sweeper:     service.NewFineService(db.GetDB()),
			Logger:      logrus.NewEntry(logrus.StandardLogger()),
			IntervalSec: cfg.FineSweeper.IntervalSec,
		})
		worker.Start()
		defer worker.Stop()
	}

	// 6. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// Setup API v1 routes
	v1.SetupRouter(r, db.GetDB(), cfg, sessions)

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	// Start server
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
