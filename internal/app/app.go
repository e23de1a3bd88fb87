package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simpledrill_backend/internal/config"
	"simpledrill_backend/internal/controller"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/internal/service"
	"simpledrill_backend/pkg/database"
	"simpledrill_backend/pkg/logger"
	"simpledrill_backend/pkg/monitoring"
	"simpledrill_backend/pkg/security"
	"simpledrill_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user        *repository.UserRepository
	person      *repository.PersonRepository
	invite      *repository.InviteRepository
	content     *repository.ContentRepository
	testSummary *repository.TestSummaryRepository
	challenge   *repository.ChallengeRepository
}

type services struct {
	auth    *service.AuthService
	invite  *service.InviteService
	test    *service.TestService
	drill   *service.DrillService
	storage *service.StorageService
	fixture *service.FixtureService
}

type controllers struct {
	auth    *controller.AuthController
	invite  *controller.InviteController
	test    *controller.TestController
	drill   *controller.DrillController
	content *controller.ContentController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		person:      repository.NewPersonRepository(db),
		invite:      repository.NewInviteRepository(db),
		content:     repository.NewContentRepository(db, rdb),
		testSummary: repository.NewTestSummaryRepository(db),
		challenge:   repository.NewChallengeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	locks := service.NewPersonLocks()
	s.auth = service.NewAuthService(repos.user, repos.person, db, rdb, cfg)
	s.invite = service.NewInviteService(repos.invite)
	s.test = service.NewTestService(repos.content, repos.testSummary, repos.challenge, locks)
	s.drill = service.NewDrillService(repos.person, repos.content, repos.challenge, locks)
	s.fixture = service.NewFixtureService(db, repos.content, s.storage)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		invite:  controller.NewInviteController(s.auth, s.invite),
		test:    controller.NewTestController(s.auth, s.test),
		drill:   controller.NewDrillController(s.auth, s.test, s.drill),
		content: controller.NewContentController(s.fixture),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("simpledrill", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func ginMode(mode string) string {
	if mode == "release" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
