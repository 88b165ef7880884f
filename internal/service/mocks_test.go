package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"socialapi/internal/model"
	"socialapi/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDWithCredentials(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailWithCredentials(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockSender is a mock implementation of mail.Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendVerification(ctx context.Context, to, name, otp string) error {
	args := m.Called(ctx, to, name, otp)
	return args.Error(0)
}

func (m *MockSender) SendPasswordChanged(ctx context.Context, to, name string) error {
	args := m.Called(ctx, to, name)
	return args.Error(0)
}

// memoryUserRepository keeps users in a map and enforces email uniqueness,
// like the real stores do.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]model.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.AssignID()
	user.Normalize()
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.Normalize()
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) find(match func(model.User) bool, withCredentials bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			if withCredentials {
				found := u
				return &found, nil
			}
			return u.Public(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id }, false)
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email }, false)
}

func (r *memoryUserRepository) FindByIDWithCredentials(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id }, true)
}

func (r *memoryUserRepository) FindByEmailWithCredentials(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email }, true)
}

// capturingSender records the last OTP sent to each address.
type capturingSender struct {
	mu   sync.Mutex
	otps map[string]string
}

func newCapturingSender() *capturingSender {
	return &capturingSender{otps: make(map[string]string)}
}

func (s *capturingSender) SendVerification(_ context.Context, to, _, otp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[to] = otp
	return nil
}

func (s *capturingSender) SendPasswordChanged(context.Context, string, string) error {
	return nil
}

func (s *capturingSender) lastOTP(to string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.otps[to]
}
