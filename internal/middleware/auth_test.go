package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/service/security"
)

func newAuthTestChain(t *testing.T) (*security.TokenService, http.Handler, *domain.ContextUser) {
	t.Helper()
	tokens, err := security.NewTokenService("middleware-test-secret")
	require.NoError(t, err)

	var seen domain.ContextUser
	handler := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := domain.UserFromContext(r.Context())
		require.True(t, ok)
		seen = user
		w.WriteHeader(http.StatusOK)
	}))
	return tokens, handler, &seen
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens, handler, seen := newAuthTestChain(t)

	raw, err := tokens.Issue(domain.ExportedUser{
		ID:        "user-123",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Country:   "GB",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-123", seen.ID)
	assert.Equal(t, "ada@example.com", seen.Email)
}

func TestAuthenticate_Rejections(t *testing.T) {
	tokens, handler, _ := newAuthTestChain(t)

	otherTokens, err := security.NewTokenService("a-different-secret")
	require.NoError(t, err)
	foreign, err := otherTokens.Issue(domain.ExportedUser{ID: "user-123", Email: "x@example.com"})
	require.NoError(t, err)

	valid, err := tokens.Issue(domain.ExportedUser{ID: "user-123", Email: "x@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"bearer with no token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong signature", "Bearer " + foreign},
		{"scheme glued to token", "Bearer" + valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "unauthorized")
		})
	}
}

// The bearer scheme is matched case-insensitively, per RFC 9110.
func TestAuthenticate_SchemeCaseInsensitive(t *testing.T) {
	tokens, handler, _ := newAuthTestChain(t)

	raw, err := tokens.Issue(domain.ExportedUser{ID: "user-123", Email: "x@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
