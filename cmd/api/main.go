package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/dmaddalena/lifelog/internal/adapters/cache"
	adapterHTTP "github.com/dmaddalena/lifelog/internal/adapters/handler/http"
	"github.com/dmaddalena/lifelog/internal/adapters/repository"
	"github.com/dmaddalena/lifelog/internal/core/domain"
	"github.com/dmaddalena/lifelog/internal/core/services"
	"github.com/dmaddalena/lifelog/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title        Lifelog API
// @version      1.0
// @description  Personal life-tracking backend: trackables, health, mood, focus, finance.
// @BasePath     /api/v1
func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")

	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rdb, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache and rate limiting: %v", err)
		rdb = nil
	}

	userRepo := repository.NewPostgresUserRepository(db)
	logRepo := repository.NewPostgresLogRepository(db)

	var trackableRepo domain.TrackableRepository = repository.NewPostgresTrackableRepository(db)
	if rdb != nil {
		trackableRepo = repository.NewCachedTrackableRepository(trackableRepo, rdb)
	}

	healthRepo := repository.NewPostgresHealthMetricRepository(db)
	moodRepo := repository.NewPostgresMoodLogRepository(db)
	focusRepo := repository.NewPostgresFocusSessionRepository(db)
	financeRepo := repository.NewPostgresFinanceEntryRepository(db)
	summaryRepo := repository.NewPostgresSummaryRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streakWorker := workers.NewStreakWorker(trackableRepo, logRepo)
	streakWorker.Start(ctx)

	resetScheduler := workers.NewResetScheduler(trackableRepo, logRepo)
	if err := resetScheduler.Start(); err != nil {
		log.Fatalf("Critical: failed to start reset scheduler: %v", err)
	}
	defer resetScheduler.Stop()

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, "lifelog", 24*time.Hour, userRepo)
	trackableService := services.NewTrackableService(trackableRepo, logRepo, userRepo, streakWorker)
	recordsService := services.NewRecordsService(healthRepo, moodRepo, focusRepo, financeRepo)
	summaryService := services.NewSummaryService(summaryRepo)
	statsService := services.NewStatsService(trackableRepo, logRepo, moodRepo, focusRepo, financeRepo, userRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(authService, tokenService),
		TrackableHandler: adapterHTTP.NewTrackableHandler(trackableService),
		RecordsHandler:   adapterHTTP.NewRecordsHandler(recordsService),
		SummaryHandler:   adapterHTTP.NewSummaryHandler(summaryService),
		StatsHandler:     adapterHTTP.NewStatsHandler(statsService),
		TokenService:     tokenService,
		DB:               db,
		Redis:            rdb,
		StartTime:        startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Lifelog API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
