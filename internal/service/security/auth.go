package security

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

// AccountLifetime is how far into the future an account's expiry is pushed on
// signup and on every successful login.
const AccountLifetime = 365 * 24 * time.Hour

// AuthService handles local-credential signup and login.
type AuthService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(users domain.UserRepository, hasher domain.PasswordHasher, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		logger: logger.With("component", "auth_service"),
		now:    time.Now,
	}
}

// SignupLocal creates an account with a password credential. The email must
// not already be registered; the account expires one year from now unless a
// login extends it.
func (s *AuthService) SignupLocal(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrConflict("email is already registered")
	} else {
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           domain.NewID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: &hash,
		Country:      req.Country,
		Company:      req.Company,
		ExpiresAt:    s.now().UTC().Add(AccountLifetime),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "user_id", created.ID)
	return created, nil
}

// VerifyLocalLogin checks an email/password pair. It returns (nil, nil) for
// every credential failure: unknown email, account without a local password,
// or a wrong password. The caller must not be able to tell those apart. On
// success the account expiry is extended a year from now.
func (s *AuthService) VerifyLocalLogin(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, nil
	}
	if !s.hasher.Verify(req.Password, *user.PasswordHash) {
		return nil, nil
	}

	until := s.now().UTC().Add(AccountLifetime)
	if err := s.users.ExtendExpiry(ctx, user.ID, until); err != nil {
		return nil, err
	}
	user.ExpiresAt = until

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}
