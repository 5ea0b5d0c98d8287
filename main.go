package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storeapi/backend/internal/config"
	"github.com/storeapi/backend/internal/db"
	"github.com/storeapi/backend/internal/handler"
	"github.com/storeapi/backend/internal/logger"
	"github.com/storeapi/backend/internal/password"
	"github.com/storeapi/backend/internal/service"
	"github.com/storeapi/backend/internal/token"
)

// @title Store API
// @version 1.0
// @description Account registration, email confirmation, token login and posts.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Close()

	if cfg.EnvState == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	dsn, err := cfg.Postgres.DSN()
	if err != nil {
		logger.Fatal("failed to build database dsn", "error", err)
	}
	pg, err := db.Open(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer pg.Close()

	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	tokens := token.NewManager(cfg.Auth.SecretKey, cfg.Auth.AccessTTL, cfg.Auth.ConfirmTTL)

	authService := service.NewAuthService(pg, hasher, tokens, logger)
	postService := service.NewPostService(pg, logger)
	carService := service.NewCarService(pg, logger)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           authService,
		Posts:          postService,
		Cars:           carService,
		DB:             pg,
		Logger:         logger,
		PublicBaseURL:  cfg.HTTP.PublicBaseURL,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "address", srv.Addr, "env", cfg.EnvState)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}
	logger.Info("shutdown complete")
}
