package security

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

// ErrProviderNotConfigured is returned when a social login route is hit for a
// provider this deployment has no OIDC client for.
var ErrProviderNotConfigured = errors.New("identity provider is not configured")

// SupportedProviders lists the external identity providers accounts can be
// linked to.
var SupportedProviders = []string{"apple", "google", "microsoft"}

// ProviderConfig holds the OIDC settings for one external identity provider.
type ProviderConfig struct {
	IssuerURL string
	ClientID  string
}

// Configured reports whether both settings are present.
func (c ProviderConfig) Configured() bool {
	return c.IssuerURL != "" && c.ClientID != ""
}

// idTokenVerifier is the slice of *oidc.IDTokenVerifier the service needs,
// extracted so tests can stub verification without a live issuer.
type idTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// FederationService verifies external ID tokens and maps them to linked
// accounts. A provider without configuration stays nil in the verifier map
// and every login attempt against it fails with ErrProviderNotConfigured.
type FederationService struct {
	users     domain.UserRepository
	verifiers map[string]idTokenVerifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewFederationService creates a FederationService. Discovery runs once per
// configured provider at startup; an unreachable issuer fails construction
// rather than every login.
func NewFederationService(
	ctx context.Context,
	users domain.UserRepository,
	providers map[string]ProviderConfig,
	logger *slog.Logger,
) (*FederationService, error) {
	verifiers := make(map[string]idTokenVerifier, len(SupportedProviders))
	for _, name := range SupportedProviders {
		cfg, ok := providers[name]
		if !ok || !cfg.Configured() {
			continue
		}
		provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("discover oidc provider %s: %w", name, err)
		}
		verifiers[name] = provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	}
	return &FederationService{
		users:     users,
		verifiers: verifiers,
		logger:    logger.With("component", "federation_service"),
		now:       time.Now,
	}, nil
}

// Login verifies an external ID token and returns the account linked to its
// subject. Unlinked subjects yield (nil, nil), matching the local login
// contract. On success the account expiry is extended a year from now.
func (s *FederationService) Login(ctx context.Context, provider, rawIDToken string) (*domain.User, error) {
	verifier, ok := s.verifiers[provider]
	if !ok {
		return nil, ErrProviderNotConfigured
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, nil
	}

	user, err := s.users.GetByExternalID(ctx, provider, idToken.Subject)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}

	until := s.now().UTC().Add(AccountLifetime)
	if err := s.users.ExtendExpiry(ctx, user.ID, until); err != nil {
		return nil, err
	}
	user.ExpiresAt = until

	s.logger.Info("user logged in via provider", "user_id", user.ID, "provider", provider)
	return user, nil
}
