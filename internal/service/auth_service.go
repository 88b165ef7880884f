package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"socialapi/internal/auth"
	"socialapi/internal/cache"
	apperrors "socialapi/internal/errors"
	"socialapi/internal/mail"
	"socialapi/internal/model"
	"socialapi/internal/repository"
)

const defaultOTPDigits = 4

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by the flows that issue a token.
type AuthResult struct {
	Token string
	User  *model.User
	// VerificationRequired is set when the account is not yet verified. A
	// fresh OTP has been sent and the token lets the caller verify it.
	VerificationRequired bool
}

// AuthService implements the credential lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyOTP(ctx context.Context, user *model.User, otp string) (alreadyVerified bool, err error)
	ResetPassword(ctx context.Context, user *model.User, previousPassword, newPassword string) (*AuthResult, error)
}

// Tokens issues signed tokens for a user id.
type Tokens interface {
	IssueToken(userID string) (string, error)
}

// Hasher hashes and compares secrets.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hashed string) (bool, error)
}

// AuthOption customizes an AuthService.
type AuthOption func(*authService)

// WithOTPDigits sets the length of generated codes.
func WithOTPDigits(n int) AuthOption {
	return func(s *authService) {
		if n > 0 {
			s.otpDigits = n
		}
	}
}

// WithCodeGenerator replaces the OTP generator.
func WithCodeGenerator(gen func(n int) (string, error)) AuthOption {
	return func(s *authService) {
		s.generateCode = gen
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) AuthOption {
	return func(s *authService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCache sets the profile cache invalidated on writes.
func WithCache(c *cache.Client) AuthOption {
	return func(s *authService) {
		s.cache = c
	}
}

// WithTracer sets the tracer used for the flow spans.
func WithTracer(tracer trace.Tracer) AuthOption {
	return func(s *authService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

type authService struct {
	users        repository.UserRepository
	hasher       Hasher
	tokens       Tokens
	mailer       mail.Sender
	cache        *cache.Client
	logger       *zap.Logger
	tracer       trace.Tracer
	otpDigits    int
	generateCode func(n int) (string, error)
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher Hasher, tokens Tokens, mailer mail.Sender, opts ...AuthOption) AuthService {
	s := &authService{
		users:        users,
		hasher:       hasher,
		tokens:       tokens,
		mailer:       mailer,
		logger:       zap.NewNop(),
		tracer:       otel.Tracer("socialapi/internal/service"),
		otpDigits:    defaultOTPDigits,
		generateCode: auth.GenerateDigitCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unverified account and emails its first OTP.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, fail(span, apperrors.ErrDuplicateAccount)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fail(span, fmt.Errorf("check account existence: %w", err))
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fail(span, err)
	}
	otp, otpHash, err := s.newOTP()
	if err != nil {
		return nil, fail(span, err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		OTPHash:      otpHash,
		IsVerified:   false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, fail(span, apperrors.ErrDuplicateAccount)
		}
		return nil, fail(span, fmt.Errorf("create user: %w", err))
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	if err := s.mailer.SendVerification(ctx, user.Email, user.Username, otp); err != nil {
		return nil, fail(span, fmt.Errorf("send verification email: %w", err))
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("issue token: %w", err))
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Login checks credentials. An unverified account gets a new OTP by email
// and a token with VerificationRequired set.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.users.FindByEmailWithCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fail(span, apperrors.ErrInvalidCredentials)
		}
		return nil, fail(span, fmt.Errorf("find user: %w", err))
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	ok, err := s.hasher.Compare(password, user.PasswordHash)
	if err != nil {
		return nil, fail(span, err)
	}
	if !ok {
		return nil, fail(span, apperrors.ErrInvalidCredentials)
	}

	if !user.IsVerified {
		return s.resendVerification(ctx, span, user)
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("issue token: %w", err))
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

func (s *authService) resendVerification(ctx context.Context, span trace.Span, user *model.User) (*AuthResult, error) {
	otp, otpHash, err := s.newOTP()
	if err != nil {
		return nil, fail(span, err)
	}

	previousOTPHash := user.OTPHash
	user.OTPHash = otpHash
	if err := s.users.Update(ctx, user); err != nil {
		user.OTPHash = previousOTPHash
		return nil, fail(span, fmt.Errorf("rotate otp: %w", err))
	}
	if err := s.mailer.SendVerification(ctx, user.Email, user.Username, otp); err != nil {
		return nil, fail(span, fmt.Errorf("send verification email: %w", err))
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("issue token: %w", err))
	}

	s.logger.Info("OTP rotated for unverified login", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user.Public(), VerificationRequired: true}, nil
}

// VerifyOTP marks the account verified when otp matches. The user must have
// been loaded with credentials.
func (s *authService) VerifyOTP(ctx context.Context, user *model.User, otp string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.VerifyOTP",
		trace.WithAttributes(attribute.String("user.id", user.ID)))
	defer span.End()

	if user.IsVerified {
		return true, nil
	}
	if otp == "" {
		return false, fail(span, apperrors.ErrMissingOTP)
	}

	ok, err := s.hasher.Compare(otp, user.OTPHash)
	if err != nil {
		return false, fail(span, err)
	}
	if !ok {
		return false, fail(span, apperrors.ErrIncorrectOTP)
	}

	previousOTPHash := user.OTPHash
	user.OTPHash = ""
	user.IsVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		user.OTPHash = previousOTPHash
		user.IsVerified = false
		return false, fail(span, fmt.Errorf("mark verified: %w", err))
	}
	_ = s.cache.Delete(ctx, profileCacheKey(user.ID))

	s.logger.Info("Email verified", zap.String("user_id", user.ID))
	return false, nil
}

// ResetPassword replaces the password after re-checking the previous one and
// returns a fresh token.
func (s *authService) ResetPassword(ctx context.Context, user *model.User, previousPassword, newPassword string) (*AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.ResetPassword",
		trace.WithAttributes(attribute.String("user.id", user.ID)))
	defer span.End()

	ok, err := s.hasher.Compare(previousPassword, user.PasswordHash)
	if err != nil {
		return nil, fail(span, err)
	}
	if !ok {
		return nil, fail(span, apperrors.ErrIncorrectPreviousPassword)
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fail(span, err)
	}

	previousHash := user.PasswordHash
	user.PasswordHash = newHash
	if err := s.users.Update(ctx, user); err != nil {
		user.PasswordHash = previousHash
		return nil, fail(span, fmt.Errorf("update password: %w", err))
	}
	_ = s.cache.Delete(ctx, profileCacheKey(user.ID))

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("issue token: %w", err))
	}

	if err := s.mailer.SendPasswordChanged(ctx, user.Email, user.Username); err != nil {
		s.logger.Warn("Password changed email not delivered",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Password reset", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user.Public()}, nil
}

func (s *authService) newOTP() (otp, otpHash string, err error) {
	otp, err = s.generateCode(s.otpDigits)
	if err != nil {
		return "", "", fmt.Errorf("generate otp: %w", err)
	}
	otpHash, err = s.hasher.Hash(otp)
	if err != nil {
		return "", "", err
	}
	return otp, otpHash, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
