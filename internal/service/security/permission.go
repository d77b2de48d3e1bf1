package security

import (
	"context"
	"log/slog"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

// PermissionService manages the permission catalog and group attachments.
type PermissionService struct {
	permissions domain.PermissionRepository
	groups      domain.GroupRepository
	logger      *slog.Logger
}

// NewPermissionService creates a PermissionService.
func NewPermissionService(permissions domain.PermissionRepository, groups domain.GroupRepository, logger *slog.Logger) *PermissionService {
	return &PermissionService{
		permissions: permissions,
		groups:      groups,
		logger:      logger.With("component", "permission_service"),
	}
}

// Create adds a permission to the catalog. The name must be well-formed and
// not already present.
func (s *PermissionService) Create(ctx context.Context, name string) (*domain.Permission, error) {
	if _, err := domain.ParsePermissionName(name); err != nil {
		return nil, err
	}

	perm := &domain.Permission{
		ID:   domain.NewID(),
		Name: name,
	}
	created, err := s.permissions.Create(ctx, perm)
	if err != nil {
		return nil, err
	}

	s.logger.Info("permission created", "permission_id", created.ID, "name", created.Name)
	return created, nil
}

// List returns a page of the permission catalog and the total count.
func (s *PermissionService) List(ctx context.Context, page domain.PageRequest) ([]domain.Permission, int64, error) {
	return s.permissions.List(ctx, page)
}

// ListForGroup returns the permissions attached to a group.
func (s *PermissionService) ListForGroup(ctx context.Context, groupID string) ([]domain.Permission, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.permissions.ListForGroup(ctx, groupID)
}

// AttachToGroup links the listed permissions to a group. All-or-nothing: if
// any id is absent from the catalog the group is left unchanged. Permissions
// already attached are skipped, not errors.
func (s *PermissionService) AttachToGroup(ctx context.Context, groupID string, req domain.AttachPermissionsRequest, assignedBy *string) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return err
	}

	found, err := s.permissions.GetByIDs(ctx, req.PermissionIDs)
	if err != nil {
		return err
	}
	if len(found) != len(dedupeIDs(req.PermissionIDs)) {
		return domain.ErrNotFound("one or more permissions do not exist")
	}

	if err := s.permissions.AttachToGroup(ctx, groupID, req.PermissionIDs, assignedBy); err != nil {
		return err
	}
	s.logger.Info("permissions attached", "group_id", groupID, "count", len(req.PermissionIDs))
	return nil
}

// DetachFromGroup unlinks the listed permissions from a group. Ids that are
// not attached are ignored.
func (s *PermissionService) DetachFromGroup(ctx context.Context, groupID string, req domain.DetachPermissionsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return err
	}

	if err := s.permissions.DetachFromGroup(ctx, groupID, req.PermissionIDs); err != nil {
		return err
	}
	s.logger.Info("permissions detached", "group_id", groupID, "count", len(req.PermissionIDs))
	return nil
}
