package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	procurementapp "github.com/warehousely/backend/internal/application/procurement"
	replenishmentapp "github.com/warehousely/backend/internal/application/replenishment"
	"github.com/warehousely/backend/internal/domain/replenishment"
	"github.com/warehousely/backend/internal/infrastructure/config"
	"github.com/warehousely/backend/internal/infrastructure/logger"
	"github.com/warehousely/backend/internal/infrastructure/persistence"
	"github.com/warehousely/backend/internal/infrastructure/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting procurement workflow engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories and read-side providers
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	executionRepo := persistence.NewGormExecutionRepository(db.DB)
	snapshotProvider := persistence.NewGormSnapshotProvider(db.DB)
	usageProvider := persistence.NewGormUsageProvider(db.DB)
	userDirectory := persistence.NewGormUserDirectory(db.DB)
	supplierDirectory := persistence.NewGormSupplierDirectory(db.DB)

	// Initialize transaction scopes
	procurementScope := persistence.NewGormProcurementTransactionScope(db.DB)

	// Initialize application services
	fanOutPlanner := procurementapp.NewFanOutPlanner(
		snapshotProvider,
		supplierDirectory,
		cfg.Procurement.DefaultSupplierUUID(),
		cfg.Procurement.DeliveryOffsetDays,
	)
	requisitionService := procurementapp.NewRequisitionService(procurementScope, userDirectory, fanOutPlanner)

	evaluationService := replenishmentapp.NewEvaluationService(
		ruleRepo,
		executionRepo,
		replenishment.NewEngine(),
		snapshotProvider,
		usageProvider,
		requisitionService,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the evaluation scheduler
	evaluationScheduler := scheduler.NewEvaluationScheduler(cfg.Scheduler, evaluationService, log)
	if cfg.Scheduler.Enabled {
		if err := evaluationScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start evaluation scheduler", zap.Error(err))
		}
	} else {
		log.Info("Evaluation scheduler disabled by configuration")
	}

	if rules, err := ruleRepo.FindActive(ctx); err != nil {
		log.Warn("Failed to count active replenishment rules", zap.Error(err))
	} else {
		log.Info("Replenishment rules loaded", zap.Int("active_rules", len(rules)))
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	cancel()

	if cfg.Scheduler.Enabled {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := evaluationScheduler.Stop(stopCtx); err != nil {
			log.Error("Error stopping evaluation scheduler", zap.Error(err))
		}
	}

	log.Info("Shutdown complete")
}
