package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/service/security"
)

// sessionResponse is the body returned by every successful auth endpoint.
type sessionResponse struct {
	Token string              `json:"token"`
	User  domain.ExportedUser `json:"user"`
}

// socialLoginRequest carries the external IdP ID token.
type socialLoginRequest struct {
	IDToken string `json:"idToken"`
}

// SignupLocal creates an account from email/password credentials and returns
// a session token for the new user.
func (h *Handler) SignupLocal(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.auth.SignupLocal(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.issueSession(w, r, user, http.StatusCreated)
}

// LoginLocal verifies email/password credentials. All credential failures
// yield the same 401 body.
func (h *Handler) LoginLocal(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.auth.VerifyLocalLogin(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if user == nil {
		h.writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"code":    http.StatusUnauthorized,
			"message": "invalid credentials",
		})
		return
	}

	h.issueSession(w, r, user, http.StatusOK)
}

// LoginSocial verifies an external IdP ID token and logs in the linked
// account. Providers without configuration answer 501.
func (h *Handler) LoginSocial(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	var req socialLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.IDToken == "" {
		h.writeError(w, r, domain.ErrValidation("idToken is required"))
		return
	}

	user, err := h.federation.Login(r.Context(), provider, req.IDToken)
	if err != nil {
		if errors.Is(err, security.ErrProviderNotConfigured) {
			h.writeJSON(w, http.StatusNotImplemented, map[string]interface{}{
				"code":    http.StatusNotImplemented,
				"message": "social login is not available for this provider",
			})
			return
		}
		h.writeError(w, r, err)
		return
	}
	if user == nil {
		h.writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"code":    http.StatusUnauthorized,
			"message": "invalid credentials",
		})
		return
	}

	h.issueSession(w, r, user, http.StatusOK)
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, user *domain.User, code int) {
	exported := user.Export()
	token, err := h.tokens.Issue(exported)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, code, sessionResponse{Token: token, User: exported})
}
