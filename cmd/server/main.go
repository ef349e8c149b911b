package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dairy-ledger.backend/internal/config"
	"dairy-ledger.backend/internal/domain/entities"
	domainRepos "dairy-ledger.backend/internal/domain/repositories"
	"dairy-ledger.backend/internal/infrastructure/jobs"
	"dairy-ledger.backend/internal/infrastructure/models"
	"dairy-ledger.backend/internal/infrastructure/repositories"
	"dairy-ledger.backend/internal/interfaces/http/handlers"
	"dairy-ledger.backend/internal/interfaces/http/middleware"
	"dairy-ledger.backend/internal/usecases"
	"dairy-ledger.backend/pkg/jwt"
	"dairy-ledger.backend/pkg/logger"
	"dairy-ledger.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis is the settings cache; the service degrades to direct DB reads
	// without it.
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Warn(context.Background(), "Redis unavailable, settings cache disabled", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Redis initialized")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&models.Wallet{}, &models.WalletTransaction{}, &models.WalletSettings{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	uow := repositories.NewUnitOfWork(db)
	walletRepo := repositories.NewWalletRepository(db)
	ledgerRepo := repositories.NewWalletTransactionRepository(db)
	var settingsRepo domainRepos.WalletSettingsRepository = repositories.NewWalletSettingsRepository(db, entities.WalletSettings{
		DefaultClearanceThreshold: cfg.Wallet.DefaultClearanceThreshold,
		AllowNegativeBalance:      cfg.Wallet.AllowNegativeBalance,
		AutoClearanceEnabled:      cfg.Wallet.AutoClearanceEnabled,
		NotificationEnabled:       cfg.Wallet.NotificationEnabled,
		LowBalanceThreshold:       cfg.Wallet.LowBalanceThreshold,
	})
	settingsRepo = repositories.NewCachedWalletSettingsRepository(settingsRepo)

	// Usecases
	ledgerUsecase := usecases.NewLedgerUsecase(uow, walletRepo, ledgerRepo, settingsRepo)
	clearanceUsecase := usecases.NewClearanceUsecase(ledgerUsecase, walletRepo, settingsRepo)
	walletAdminUsecase := usecases.NewWalletAdminUsecase(walletRepo)
	settingsUsecase := usecases.NewSettingsUsecase(settingsRepo)
	reportingUsecase := usecases.NewReportingUsecase(walletRepo, ledgerRepo)

	// Handlers
	walletHandler := handlers.NewWalletHandler(reportingUsecase)
	adminWalletHandler := handlers.NewAdminWalletHandler(ledgerUsecase, clearanceUsecase, walletAdminUsecase, reportingUsecase)
	settingsHandler := handlers.NewWalletSettingsHandler(settingsUsecase)

	// Background clearance sweep
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweepJob := jobs.NewClearanceSweepJob(clearanceUsecase, cfg.Wallet.SweepInterval, cfg.Wallet.SweepBatchSize)
	go sweepJob.Start(ctx)
	defer sweepJob.Stop()

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerAPIV1Routes(r, routeDeps{
		walletHandler:       walletHandler,
		adminWalletHandler:  adminWalletHandler,
		settingsHandler:     settingsHandler,
		authMiddleware:      middleware.AuthMiddleware(jwtService),
		adminAuthMiddleware: middleware.AdminAuthMiddleware(jwtService, cfg.Admin.APIKeyHash),
	})

	logger.Info(ctx, "Server starting", zap.String("port", cfg.Server.Port))
	return runServer(r, cfg.Server.Port)
}
