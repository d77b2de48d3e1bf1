package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/service/security"
)

// Authenticate requires a valid Bearer session token. The token's claims are
// converted to the request identity and stored in the context. A missing
// header, a non-Bearer scheme, or a token that fails verification all yield
// the same 401.
func Authenticate(tokens *security.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, raw, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized: provide a Bearer session token")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized: invalid session token")
				return
			}

			ctx := domain.WithUser(r.Context(), claims.ContextUser())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission requires that the authenticated user holds at least one
// effective permission matching the pattern. Must run after Authenticate.
func RequirePermission(authz *security.AuthorizationService, pattern string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			matched, err := authz.Authorize(r.Context(), user.ID, pattern)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "authorization check failed")
				return
			}
			if len(matched) == 0 {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrAdmin requires a matching permission, and additionally that
// the caller either is the subject named by the userID route parameter or
// holds an admin-tier match. Must run after Authenticate on a route with a
// {userID} parameter.
func RequireSelfOrAdmin(authz *security.AuthorizationService, pattern string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			subjectID := chi.URLParam(r, "userID")
			decision, err := authz.AuthorizeSelfOrAdmin(r.Context(), user.ID, subjectID, pattern)
			if err != nil {
				var validation *domain.ValidationError
				if errors.As(err, &validation) {
					writeJSONError(w, http.StatusBadRequest, validation.Message)
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "authorization check failed")
				return
			}
			if !decision.Allowed() {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    code,
		"message": message,
	})
}
