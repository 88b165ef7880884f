package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"socialapi/docs"
	"socialapi/internal/auth"
	"socialapi/internal/cache"
	"socialapi/internal/config"
	"socialapi/internal/db"
	"socialapi/internal/handler"
	"socialapi/internal/mail"
	"socialapi/internal/middleware"
	"socialapi/internal/router"
	"socialapi/internal/service"
	"socialapi/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// @title Commandcodes Social Media API
// @version 1.0
// @description Account service: registration, login, email OTP verification and password reset.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Telemetry init failed", zap.Error(err))
	}
	logger.Info("Telemetry configured", zap.Bool("exporting", tp.Enabled()))

	store, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Store init failed", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	logger.Info("Store connected", zap.String("driver", cfg.StoreDriver))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("Redis unavailable, profile cache disabled until it recovers", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	mailer, err := mail.New(cfg.Mail, logger.Named("mail"))
	if err != nil {
		logger.Fatal("Mail init failed", zap.Error(err))
	}
	if cfg.Mail.Host == "" {
		logger.Warn("MAIL_HOST not set, emails are written to the log")
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	authService := service.NewAuthService(store.Users, hasher, jwtService, mailer,
		service.WithOTPDigits(cfg.OTPDigits),
		service.WithCache(cacheClient),
		service.WithLogger(logger.Named("auth")),
		service.WithTracer(tp.Tracer()),
	)
	userService := service.NewUserService(store.Users, cacheClient)

	authHandler := handler.NewAuthHandler(authService, cfg, logger)
	userHandler := handler.NewUserHandler(userService, cfg, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, logger, authHandler, userHandler,
		middleware.Protect(jwtService, store.Users, cfg.IsDevelopment()),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	logger.Info("Swagger documentation available", zap.String("url", swaggerURL(cfg)))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("Server listening", zap.String("addr", addr), zap.String("env", cfg.Environment))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server start failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("Store close failed", zap.Error(err))
	}
	if err := cacheClient.Close(); err != nil {
		logger.Error("Redis close failed", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("service", cfg.ServiceName))
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/api-docs/index.html"
}
