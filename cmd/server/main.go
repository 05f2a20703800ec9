package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"ballotbox/internal/auth"
	"ballotbox/internal/cache"
	"ballotbox/internal/config"
	"ballotbox/internal/db"
	"ballotbox/internal/handler"
	"ballotbox/internal/repository"
	"ballotbox/internal/router"
	"ballotbox/internal/service"
)

// @title Ballotbox API
// @version 1.0
// @description Election management API with role-based access, one vote per voter per election and per-candidate tallies.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			log.Printf("Warning: Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable, running without cache", "addr", cfg.RedisAddr, "error", err)
	}
	cancelPing()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	electionRepo := repository.NewElectionRepository(gormDB)
	voteRepo := repository.NewVoteRepository(gormDB)
	ballotLogRepo := repository.NewBallotLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Background workers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cancelled only after e.Shutdown returns.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()

	auditor := service.NewBallotAuditor(ballotLogRepo, logger)
	auditDone := make(chan struct{})
	go func() {
		auditor.Run(auditCtx)
		close(auditDone)
	}()

	syncer := service.NewStatusSyncer(electionRepo, cacheClient, logger, cfg.StatusSyncInterval)
	go syncer.Run(ctx)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, electionRepo, cacheClient)
	electionService := service.NewElectionService(electionRepo, userRepo, cacheClient)
	voteService := service.NewVoteService(electionRepo, voteRepo, ballotLogRepo, auditor, cacheClient, logger)
	statsService := service.NewStatsService(userRepo, electionRepo, voteRepo, cacheClient)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, jwtService, tokenStore, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Election: handler.NewElectionHandler(electionService, voteService),
		Stats:    handler.NewStatsHandler(statsService),
	})

	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	stopAudit()

	select {
	case <-auditDone:
	case <-shutdownCtx.Done():
		log.Println("ballot audit flush timed out")
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
