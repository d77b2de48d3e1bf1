package security

import (
	"context"
	"errors"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

// Decision is the outcome of a self-or-admin authorization check.
type Decision int

const (
	// DecisionDeniedNoMatch: no effective permission matched the pattern.
	DecisionDeniedNoMatch Decision = iota
	// DecisionDeniedNotSelfOrAdmin: a permission matched, but the caller is
	// acting on another subject and holds no admin-tier match.
	DecisionDeniedNotSelfOrAdmin
	// DecisionAllowed: the request may proceed.
	DecisionAllowed
)

// Allowed reports whether the decision permits the request.
func (d Decision) Allowed() bool { return d == DecisionAllowed }

func (d Decision) String() string {
	switch d {
	case DecisionDeniedNoMatch:
		return "denied:no-match"
	case DecisionDeniedNotSelfOrAdmin:
		return "denied:not-self-or-admin"
	case DecisionAllowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// AuthorizationService resolves effective permission sets and decides
// allow/deny for required-permission patterns. It holds no state between
// checks; the permission set is recomputed on every call so membership
// changes take effect immediately.
type AuthorizationService struct {
	users       domain.UserRepository
	groups      domain.GroupRepository
	permissions domain.PermissionRepository
}

// NewAuthorizationService creates an AuthorizationService backed by domain
// repositories.
func NewAuthorizationService(
	users domain.UserRepository,
	groups domain.GroupRepository,
	permissions domain.PermissionRepository,
) *AuthorizationService {
	return &AuthorizationService{users: users, groups: groups, permissions: permissions}
}

// ResolveUserPermissions computes the user's effective permission set: the
// union of the permissions of every group the user belongs to, deduplicated
// by name. A user that exists but holds no permissions yields an empty set;
// an unknown user yields a NotFoundError. No ordering is guaranteed.
func (s *AuthorizationService) ResolveUserPermissions(ctx context.Context, userID string) ([]domain.Permission, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	groupIDs, err := s.groups.ListGroupIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return []domain.Permission{}, nil
	}

	perms, err := s.permissions.ListForGroups(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	// Two group-permission links pointing at the same permission collapse
	// to one entry.
	seen := make(map[string]bool, len(perms))
	unique := make([]domain.Permission, 0, len(perms))
	for _, p := range perms {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		unique = append(unique, p)
	}
	return unique, nil
}

// Authorize returns the effective permission names matching the required
// pattern. An unknown user is treated as having no permissions rather than
// surfacing an error: the route layer must not be able to tell "unknown
// principal" apart from "principal with no rights".
func (s *AuthorizationService) Authorize(ctx context.Context, userID, pattern string) ([]string, error) {
	perms, err := s.ResolveUserPermissions(ctx, userID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.Name
	}
	return MatchAll(names, pattern), nil
}

// AuthorizeSelfOrAdmin decides whether the caller may act on the requested
// subject. Any matching permission suffices when acting on oneself; acting on
// another subject additionally requires an admin-tier match among the matched
// permissions. An empty subject id is a malformed request, reported as a
// ValidationError distinct from a denial.
func (s *AuthorizationService) AuthorizeSelfOrAdmin(ctx context.Context, callerID, subjectID, pattern string) (Decision, error) {
	if subjectID == "" {
		return DecisionDeniedNoMatch, domain.ErrValidation("subject user id is required")
	}

	matched, err := s.Authorize(ctx, callerID, pattern)
	if err != nil {
		return DecisionDeniedNoMatch, err
	}
	if len(matched) == 0 {
		return DecisionDeniedNoMatch, nil
	}

	if subjectID == callerID {
		return DecisionAllowed, nil
	}

	for _, name := range matched {
		if domain.PermissionTier(name) == domain.TierAdmin {
			return DecisionAllowed, nil
		}
	}
	return DecisionDeniedNotSelfOrAdmin, nil
}
