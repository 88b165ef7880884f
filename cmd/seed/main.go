package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"socialapi/internal/auth"
	"socialapi/internal/config"
	"socialapi/internal/db"
	"socialapi/internal/model"
	"socialapi/internal/repository"
)

// demoAccount describes the verified account the seed guarantees.
type demoAccount struct {
	Username string
	Email    string
	Password string
}

func main() {
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting seed script")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() { _ = store.Close(context.Background()) }()
	logger.Info("Connected to store", zap.String("driver", cfg.StoreDriver))

	account := demoAccount{
		Username: getEnv("SEED_USERNAME", "demo"),
		Email:    getEnv("SEED_EMAIL", "demo@example.com"),
		Password: getEnv("SEED_PASSWORD", "demo-password"),
	}

	created, err := seedUser(ctx, store.Users, auth.NewPasswordHasher(cfg.BcryptCost), account)
	if err != nil {
		logger.Fatal("Failed to seed demo user", zap.Error(err))
	}

	if created {
		logger.Info("Demo user created", zap.String("email", account.Email))
	} else {
		logger.Info("Demo user updated", zap.String("email", account.Email))
	}
}

// seedUser creates the demo account or resets an existing one to a verified
// state with the configured password.
func seedUser(ctx context.Context, repo repository.UserRepository, hasher *auth.PasswordHasher, account demoAccount) (created bool, err error) {
	passwordHash, err := hasher.Hash(account.Password)
	if err != nil {
		return false, err
	}

	existing, err := repo.FindByEmailWithCredentials(ctx, account.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("error checking user %s: %w", account.Email, err)
	}

	if existing != nil {
		existing.Username = account.Username
		existing.PasswordHash = passwordHash
		existing.OTPHash = ""
		existing.IsVerified = true
		if err := repo.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("error updating user %s: %w", account.Email, err)
		}
		return false, nil
	}

	user := &model.User{
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: passwordHash,
		IsVerified:   true,
	}
	if err := repo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("error creating user %s: %w", account.Email, err)
	}
	return true, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
