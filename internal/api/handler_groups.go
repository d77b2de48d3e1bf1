package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

type groupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func groupToAPI(g domain.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

type listGroupsResponse struct {
	Groups        []groupResponse `json:"groups"`
	TotalCount    int64           `json:"totalCount"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}

type groupMemberResponse struct {
	UserID     string    `json:"userId"`
	AssignedAt time.Time `json:"assignedAt"`
	AssignedBy *string   `json:"assignedBy"`
}

type listGroupMembersResponse struct {
	Members       []groupMemberResponse `json:"members"`
	TotalCount    int64                 `json:"totalCount"`
	NextPageToken string                `json:"nextPageToken,omitempty"`
}

// ListGroups returns a page of groups.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	groups, total, err := h.groups.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]groupResponse, len(groups))
	for i, g := range groups {
		out[i] = groupToAPI(g)
	}
	h.writeJSON(w, http.StatusOK, listGroupsResponse{
		Groups:        out,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// CreateGroup adds a new group.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	group, err := h.groups.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, groupToAPI(*group))
}

// GetGroup returns a single group.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Get(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, groupToAPI(*group))
}

// UpdateGroup renames a group.
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	group, err := h.groups.Update(r.Context(), chi.URLParam(r, "groupID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, groupToAPI(*group))
}

// DeleteGroup removes an empty group. Groups with members answer 409.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Delete(r.Context(), chi.URLParam(r, "groupID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddGroupUsers adds users to a group. All listed users must exist or nothing
// is added.
func (h *Handler) AddGroupUsers(w http.ResponseWriter, r *http.Request) {
	var req domain.AddGroupUsersRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	var assignedBy *string
	if caller, ok := domain.UserFromContext(r.Context()); ok {
		assignedBy = &caller.ID
	}

	if err := h.groups.AddUsers(r.Context(), chi.URLParam(r, "groupID"), req, assignedBy); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveGroupUser removes a single membership.
func (h *Handler) RemoveGroupUser(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	userID := chi.URLParam(r, "userID")
	if err := h.groups.RemoveUser(r.Context(), groupID, userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGroupUsers returns a page of a group's memberships.
func (h *Handler) ListGroupUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	members, total, err := h.groups.ListMembers(r.Context(), chi.URLParam(r, "groupID"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]groupMemberResponse, len(members))
	for i, m := range members {
		out[i] = groupMemberResponse{
			UserID:     m.UserID,
			AssignedAt: m.AssignedAt,
			AssignedBy: m.AssignedBy,
		}
	}
	h.writeJSON(w, http.StatusOK, listGroupMembersResponse{
		Members:       out,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}
