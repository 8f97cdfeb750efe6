// File: app/app.go
package app

import (
	"context"
	"go-bank-ledger/config"
	"go-bank-ledger/db"
	"go-bank-ledger/handler"
	"go-bank-ledger/logger"
	"go-bank-ledger/repository"
	"go-bank-ledger/router"
	"go-bank-ledger/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	// Redis is optional: without it the PIN failure counters live in process
	// memory and reset on restart.
	var counters service.ICounterStore
	if redisClient, err := db.ConnectRedis(); err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, PIN failure counters will not survive restarts")
		counters = service.NewMemoryCounterStore()
	} else {
		defer redisClient.Close()
		counters = service.NewRedisCounterStore(redisClient)
	}

	// --- Wiring All Layers Together ---
	accountRepo := repository.NewAccountRepository(database)
	txnRepo := repository.NewTransactionRepository(database)

	pinHasher := service.NewBcryptPinHasher()
	guard := service.NewAuthGuard(pinHasher, counters,
		config.AppConfig.Ledger.MaxPinAttempts, config.AppConfig.Ledger.MinPinLength)

	ledger := service.NewLedgerService(database, accountRepo, txnRepo, guard, pinHasher,
		config.AppConfig.StoreTimeout(), config.AppConfig.Ledger.DefaultHistoryLimit)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelLoad()
	if err := ledger.Load(loadCtx); err != nil {
		logger.Log.Fatalf("Error loading ledger state: %v", err)
	}

	accountHandler := handler.NewAccountHandler(ledger)
	transferHandler := handler.NewTransferHandler(ledger)
	adminHandler := handler.NewAdminHandler(ledger)

	r := router.NewRouter(accountHandler, transferHandler, adminHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
