package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"socialapi/internal/cache"
	"socialapi/internal/model"
	"socialapi/internal/repository"
)

func TestUserService_GetProfileUsesCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c := cache.New(mr.Addr(), "", 0)
	defer c.Close()

	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, "u-1").
		Return(&model.User{ID: "u-1", Username: "alice", Email: "alice@example.com"}, nil).Once()

	svc := NewUserService(repo, c)
	ctx := context.Background()

	first, err := svc.GetProfile(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.True(t, mr.Exists("user:u-1"))

	second, err := svc.GetProfile(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)

	repo.AssertNumberOfCalls(t, "FindByID", 1)

	ttl := mr.TTL("user:u-1")
	assert.True(t, ttl > 0 && ttl <= 5*time.Minute)
}

func TestUserService_GetProfileWithoutCache(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	svc := NewUserService(repo, nil)
	_, err := svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestAuthService_VerifyOTPInvalidatesProfileCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c := cache.New(mr.Addr(), "", 0)
	defer c.Close()
	require.NoError(t, mr.Set("user:u-1", `{"id":"u-1"}`))

	repo := new(MockUserRepository)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	svc := newTestAuthService(repo, new(MockSender), WithCache(c))
	_, err = svc.VerifyOTP(context.Background(), &model.User{ID: "u-1", OTPHash: mustHash(t, "1234")}, "1234")
	require.NoError(t, err)

	assert.False(t, mr.Exists("user:u-1"))
}
