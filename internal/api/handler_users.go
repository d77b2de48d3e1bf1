package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

type listUsersResponse struct {
	Users         []domain.ExportedUser `json:"users"`
	TotalCount    int64                 `json:"totalCount"`
	NextPageToken string                `json:"nextPageToken,omitempty"`
}

// ListUsers returns a page of accounts.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	users, total, err := h.users.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, listUsersResponse{
		Users:         users,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// GetUser returns a single account.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// UpdateUser applies a partial profile update.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), chi.URLParam(r, "userID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes an account and its group memberships.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
