package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code_arena/internal/api"
	"code_arena/internal/app/service"
	"code_arena/internal/badge"
	"code_arena/internal/common/security"
	"code_arena/internal/domain/repository"
	"code_arena/internal/judge"
	"code_arena/internal/platform/cache"
	"code_arena/internal/platform/config"
	"code_arena/internal/platform/database"
	"code_arena/internal/platform/executor"
)

func main() {
	cfg := config.Load()
	log.Println("Configuration loaded.")

	tokenAuth := security.NewTokenAuth(cfg.JWTKey)

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	log.Println("Database connected.")

	rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer rdb.Close()
	log.Println("Redis connected.")

	userRepo := repository.NewPgUserRepository(db)
	problemRepo := repository.NewPgProblemRepository(db)
	submissionRepo := repository.NewPgSubmissionRepository(db)
	statsRepo := repository.NewPgStatsRepository(db)
	badgeRepo := repository.NewPgBadgeRepository(db)

	sandbox := executor.NewClient(cfg.ExecutorURL, cfg.ExecutorTimeout)
	gradingEngine := judge.NewEngine(sandbox)
	badgeEngine := badge.NewEngine(submissionRepo, badgeRepo)
	accountLock := cache.NewAccountLock(rdb, cfg.AccountLockTTL, cfg.AccountLockWait)

	authService := service.NewAuthService(userRepo, tokenAuth, cfg.JWTExp)
	problemService := service.NewProblemService(problemRepo, db)
	badgeService := service.NewBadgeService(badgeRepo, statsRepo, badgeEngine)
	accountService := service.NewAccountService(statsRepo, submissionRepo, userRepo)
	gradingService := service.NewGradingService(
		problemRepo, submissionRepo, statsRepo,
		gradingEngine, badgeService, accountLock, db, cfg.MaxSubmissionSize,
	)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := badgeService.SeedCatalog(seedCtx); err != nil {
		seedCancel()
		log.Fatalf("Badge catalog seeding failed: %v", err)
	}
	seedCancel()
	log.Println("Badge catalog seeded.")

	router := api.NewRouter(tokenAuth, authService, problemService, gradingService, accountService, badgeService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // Grading waits on the executor
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully.")
}
