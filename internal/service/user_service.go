package service

import (
	"context"
	"fmt"
	"time"

	"socialapi/internal/cache"
	"socialapi/internal/model"
	"socialapi/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes profile reads.
type UserService interface {
	GetProfile(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func profileCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, profileCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	s.cache.SetJSON(ctx, profileCacheKey(id), public, userCacheTTL)
	return public, nil
}
