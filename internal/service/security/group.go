package security

import (
	"context"
	"log/slog"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

// GroupService manages groups and their membership.
type GroupService struct {
	groups domain.GroupRepository
	users  domain.UserRepository
	logger *slog.Logger
}

// NewGroupService creates a GroupService.
func NewGroupService(groups domain.GroupRepository, users domain.UserRepository, logger *slog.Logger) *GroupService {
	return &GroupService{
		groups: groups,
		users:  users,
		logger: logger.With("component", "group_service"),
	}
}

// Create adds a new group. Names are unique; a taken name is a conflict.
func (s *GroupService) Create(ctx context.Context, req domain.CreateGroupRequest) (*domain.Group, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	group := &domain.Group{
		ID:   domain.NewID(),
		Name: req.Name,
	}
	created, err := s.groups.Create(ctx, group)
	if err != nil {
		return nil, err
	}

	s.logger.Info("group created", "group_id", created.ID, "name", created.Name)
	return created, nil
}

// Get returns a single group.
func (s *GroupService) Get(ctx context.Context, id string) (*domain.Group, error) {
	return s.groups.GetByID(ctx, id)
}

// List returns a page of groups and the total count.
func (s *GroupService) List(ctx context.Context, page domain.PageRequest) ([]domain.Group, int64, error) {
	return s.groups.List(ctx, page)
}

// Update renames a group.
func (s *GroupService) Update(ctx context.Context, id string, req domain.UpdateGroupRequest) (*domain.Group, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.groups.UpdateName(ctx, id, req.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("group renamed", "group_id", id, "name", req.Name)
	return updated, nil
}

// Delete removes a group. Only empty groups can be removed; members must be
// detached first so no one silently loses permissions.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	if _, err := s.groups.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.groups.CountMembers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict("group has %d member(s); remove them before deleting", count)
	}

	if err := s.groups.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("group deleted", "group_id", id)
	return nil
}

// AddUsers adds the listed users to a group. The operation is all-or-nothing:
// if any id does not name an existing user, membership is left unchanged.
// Users already in the group are skipped, not errors.
func (s *GroupService) AddUsers(ctx context.Context, groupID string, req domain.AddGroupUsersRequest, assignedBy *string) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return err
	}

	count, err := s.users.CountByIDs(ctx, req.UserIDs)
	if err != nil {
		return err
	}
	if count != int64(len(dedupeIDs(req.UserIDs))) {
		return domain.ErrNotFound("one or more users do not exist")
	}

	if err := s.groups.AddMembers(ctx, groupID, req.UserIDs, assignedBy); err != nil {
		return err
	}
	s.logger.Info("users added to group", "group_id", groupID, "count", len(req.UserIDs))
	return nil
}

// RemoveUser removes a single membership.
func (s *GroupService) RemoveUser(ctx context.Context, groupID, userID string) error {
	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}
	s.logger.Info("user removed from group", "group_id", groupID, "user_id", userID)
	return nil
}

// ListMembers returns a page of a group's memberships and the total count.
func (s *GroupService) ListMembers(ctx context.Context, groupID string, page domain.PageRequest) ([]domain.GroupMember, int64, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, 0, err
	}
	return s.groups.ListMembers(ctx, groupID, page)
}

// dedupeIDs returns ids with duplicates removed, preserving first occurrence.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
