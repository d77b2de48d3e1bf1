package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

type permissionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func permissionToAPI(p domain.Permission) permissionResponse {
	return permissionResponse{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

func permissionsToAPI(perms []domain.Permission) []permissionResponse {
	out := make([]permissionResponse, len(perms))
	for i, p := range perms {
		out[i] = permissionToAPI(p)
	}
	return out
}

type listPermissionsResponse struct {
	Permissions   []permissionResponse `json:"permissions"`
	TotalCount    int64                `json:"totalCount"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

type permissionSetResponse struct {
	Permissions []permissionResponse `json:"permissions"`
}

type createPermissionRequest struct {
	Name string `json:"name"`
}

// ListPermissions returns a page of the permission catalog.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	perms, total, err := h.permissions.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, listPermissionsResponse{
		Permissions:   permissionsToAPI(perms),
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// CreatePermission adds a permission to the catalog.
func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var req createPermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	perm, err := h.permissions.Create(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, permissionToAPI(*perm))
}

// GetOwnPermissions returns the caller's effective permission set.
func (h *Handler) GetOwnPermissions(w http.ResponseWriter, r *http.Request) {
	caller, ok := domain.UserFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"code":    http.StatusUnauthorized,
			"message": "unauthorized",
		})
		return
	}
	h.writeUserPermissions(w, r, caller.ID)
}

// GetUserPermissions returns another user's effective permission set.
func (h *Handler) GetUserPermissions(w http.ResponseWriter, r *http.Request) {
	h.writeUserPermissions(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) writeUserPermissions(w http.ResponseWriter, r *http.Request, userID string) {
	perms, err := h.authz.ResolveUserPermissions(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, permissionSetResponse{Permissions: permissionsToAPI(perms)})
}

// GetGroupPermissions returns the permissions attached to a group.
func (h *Handler) GetGroupPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.permissions.ListForGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, permissionSetResponse{Permissions: permissionsToAPI(perms)})
}

// AttachGroupPermissions links permissions to a group. All listed permissions
// must exist or nothing is attached; already-attached ids are skipped.
func (h *Handler) AttachGroupPermissions(w http.ResponseWriter, r *http.Request) {
	var req domain.AttachPermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	var assignedBy *string
	if caller, ok := domain.UserFromContext(r.Context()); ok {
		assignedBy = &caller.ID
	}

	if err := h.permissions.AttachToGroup(r.Context(), chi.URLParam(r, "groupID"), req, assignedBy); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DetachGroupPermissions unlinks permissions from a group.
func (h *Handler) DetachGroupPermissions(w http.ResponseWriter, r *http.Request) {
	var req domain.DetachPermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.permissions.DetachFromGroup(r.Context(), chi.URLParam(r, "groupID"), req); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
