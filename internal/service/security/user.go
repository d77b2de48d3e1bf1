package security

import (
	"context"
	"log/slog"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

// UserService exposes account administration over the export-safe user
// projection. Credential and identity-linkage fields never cross this layer.
type UserService struct {
	users  domain.UserRepository
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users domain.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger.With("component", "user_service"),
	}
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.ExportedUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	exported := user.Export()
	return &exported, nil
}

// List returns a page of users and the total count.
func (s *UserService) List(ctx context.Context, page domain.PageRequest) ([]domain.ExportedUser, int64, error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	exported := make([]domain.ExportedUser, len(users))
	for i := range users {
		exported[i] = users[i].Export()
	}
	return exported, total, nil
}

// Update applies the provided profile fields and returns the updated user.
func (s *UserService) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.ExportedUser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Country != nil {
		user.Country = *req.Country
	}
	if req.Company != nil {
		user.Company = req.Company
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id)
	exported := updated.Export()
	return &exported, nil
}

// Delete removes a user and their group memberships.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}
