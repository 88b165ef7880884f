package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"socialapi/internal/model"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a write violates the unique email index.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines persistence operations. Plain lookups leave the
// credential fields (password hash, OTP hash, verified flag) unset; the
// WithCredentials variants load them.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDWithCredentials(ctx context.Context, id string) (*model.User, error)
	FindByEmailWithCredentials(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translateGormError(r.db.WithContext(ctx).Create(user).Error)
}

// Update writes every mutable column, including zero values such as a cleared
// OTP hash, so the user passed in must have been loaded with credentials.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	user.Normalize()
	user.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"username":      user.Username,
			"slug":          user.Slug,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"otp_hash":      user.OTPHash,
			"is_verified":   user.IsVerified,
			"updated_at":    user.UpdatedAt,
		})
	if err := translateGormError(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).Omit(model.HiddenFields...), "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).Omit(model.HiddenFields...), "email = ?", email)
}

func (r *userRepository) FindByIDWithCredentials(ctx context.Context, id string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *userRepository) FindByEmailWithCredentials(ctx context.Context, email string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx), "email = ?", email)
}

func (r *userRepository) first(tx *gorm.DB, query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := tx.Where(query, arg).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateEmail
	default:
		return err
	}
}
