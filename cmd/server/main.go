package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"conferenceplanner/config"
	authadapter "conferenceplanner/internal/adapters/auth"
	emailadapter "conferenceplanner/internal/adapters/email"
	delivery "conferenceplanner/internal/delivery/http"
	"conferenceplanner/internal/delivery/http/controllers"
	"conferenceplanner/internal/delivery/http/middleware"
	"conferenceplanner/internal/repository/postgres"
	"conferenceplanner/internal/services"
	"conferenceplanner/internal/validation"
)

// @title Conference Planner API
// @version 1.0
// @description Scheduling, rooms, and favorites for a one-week conference.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("database ping failed", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	userRepo := postgres.NewUserRepository(db)

	issuer, verifier := authadapter.NewJWTCodec(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)

	mailer, err := emailadapter.NewMailer(cfg.Mailer, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())

	window := validation.NewWindow(cfg.ConferenceStart, cfg.ConferenceEnd)
	eventValidator := validation.NewEventValidator(eventRepo, window)
	roomValidator := validation.NewRoomValidator(roomRepo)

	eventService := services.NewEventService(eventRepo, userRepo, eventValidator, emailService, logger)
	roomService := services.NewRoomService(roomRepo, roomValidator)
	favoritesService := services.NewFavoritesService(userRepo, eventRepo, cfg.FavoritesLimit)
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.TokenExpiry, emailService, logger)

	router := delivery.NewRouter(
		verifier,
		controllers.NewEventController(logger, eventService),
		controllers.NewRoomController(logger, roomService),
		controllers.NewFavoriteController(logger, favoritesService),
		controllers.NewAuthController(logger, authService),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Logging(logger, router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
