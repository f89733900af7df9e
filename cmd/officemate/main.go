package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/70nanon/officemate/internal/config"
	"github.com/70nanon/officemate/internal/database"
	"github.com/70nanon/officemate/internal/handlers"
	authmw "github.com/70nanon/officemate/internal/middleware"
	"github.com/70nanon/officemate/internal/relay"
	"github.com/70nanon/officemate/internal/services"
	"github.com/70nanon/officemate/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	tokenService := services.NewTokenService(db)
	seatService := services.NewSeatService(db)
	mapService := services.NewMapService(db)

	uploader := relay.NewClient(cfg.RelayUploadURL, cfg.RelayTimeout)

	hub := sse.NewHub()
	go hub.Run()

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService, profileService, uploader, cfg.ReauthWindow)
	seatHandler := handlers.NewSeatHandler(seatService, hub)
	mapHandler := handlers.NewMapHandler(mapService, uploader, hub)
	sseHandler := handlers.NewSSEHandler(hub, seatService, mapService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/signin", authHandler.SignIn)
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateDisplayName)
	protected.Patch("/users/me/email", userHandler.UpdateEmail)
	protected.Patch("/users/me/password", userHandler.UpdatePassword)
	protected.Post("/users/me/avatar", userHandler.UploadAvatar)

	protected.Get("/profiles/:id", userHandler.GetProfile)

	protected.Get("/seats", seatHandler.List)
	protected.Post("/seats", seatHandler.Create)
	protected.Post("/seat-layout/initialize", seatHandler.Initialize)
	protected.Post("/seats/:id/claim", seatHandler.Claim)
	protected.Post("/seats/:id/release", seatHandler.Release)
	protected.Patch("/seats/:id/position", seatHandler.UpdatePosition)
	protected.Delete("/seats/:id", seatHandler.Delete)

	protected.Get("/map", mapHandler.Get)
	protected.Post("/map", mapHandler.Upload)

	protected.Get("/events", sseHandler.Connect)
	protected.Post("/sse/:clientId/subscribe/:topic", sseHandler.Subscribe)
	protected.Post("/sse/:clientId/unsubscribe/:topic", sseHandler.Unsubscribe)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logrus.WithField("addr", addr).Info("Server starting")
		if err := app.Run(addr); err != nil {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
}
