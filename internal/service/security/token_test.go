package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

func testUser() domain.ExportedUser {
	company := "ACME"
	return domain.ExportedUser{
		ID:        "01936b2a-0000-7000-8000-000000000001",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Country:   "GB",
		Company:   &company,
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret")
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("")
	require.Error(t, err)
}

func TestTokenService_IssueVerify_Roundtrip(t *testing.T) {
	svc := newTestTokenService(t)
	user := testUser()

	raw, err := svc.Issue(user)
	require.NoError(t, err)

	claims, err := svc.Verify(raw)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.FirstName, claims.FirstName)
	assert.Equal(t, user.LastName, claims.LastName)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Country, claims.Country)
	require.NotNil(t, claims.Company)
	assert.Equal(t, "ACME", *claims.Company)
	assert.Equal(t, TokenIssuer, claims.Issuer)
	assert.ElementsMatch(t, DefaultAudience, []string(claims.Audience))
}

func TestTokenService_Verify_ContextUser(t *testing.T) {
	svc := newTestTokenService(t)

	raw, err := svc.Issue(testUser())
	require.NoError(t, err)

	claims, err := svc.Verify(raw)
	require.NoError(t, err)

	cu := claims.ContextUser()
	assert.Equal(t, testUser().ID, cu.ID)
	assert.Equal(t, "ada@example.com", cu.Email)
}

func TestTokenService_Verify_ValidJustBeforeExpiry(t *testing.T) {
	svc := newTestTokenService(t)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	raw, err := svc.Issue(testUser())
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(TokenLifetime - time.Minute) }
	_, err = svc.Verify(raw)
	assert.NoError(t, err)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc := newTestTokenService(t)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	raw, err := svc.Issue(testUser())
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(TokenLifetime + time.Second) }
	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	svc := newTestTokenService(t)
	other, err := NewTokenService("different-secret")
	require.NoError(t, err)

	raw, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, err = other.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := newTestTokenService(t)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

// Tokens from another issuer or audience are rejected even with the right key.
func TestTokenService_Verify_WrongIssuerOrAudience(t *testing.T) {
	svc := newTestTokenService(t)
	now := time.Now()

	sign := func(claims SessionClaims) string {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return raw
	}

	base := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings(DefaultAudience),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	wrongIssuer := base
	wrongIssuer.Issuer = "someone:else"
	_, err := svc.Verify(sign(SessionClaims{RegisteredClaims: wrongIssuer}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAudience := base
	wrongAudience.Audience = jwt.ClaimStrings{"other:service"}
	_, err = svc.Verify(sign(SessionClaims{RegisteredClaims: wrongAudience}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry := base
	noExpiry.ExpiresAt = nil
	_, err = svc.Verify(sign(SessionClaims{RegisteredClaims: noExpiry}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	emptySubject := base
	emptySubject.Subject = ""
	_, err = svc.Verify(sign(SessionClaims{RegisteredClaims: emptySubject}))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// A token signed with "none" must never verify, even if the payload is right.
func TestTokenService_Verify_RejectsUnsignedAlg(t *testing.T) {
	svc := newTestTokenService(t)
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings(DefaultAudience),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
