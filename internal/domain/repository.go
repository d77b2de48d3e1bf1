package domain

import (
	"context"
	"time"
)

// UserRepository provides CRUD operations for users.
// Reads return a NotFoundError when no row matches; writes surface UNIQUE
// violations as ConflictError.
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByExternalID(ctx context.Context, provider, externalID string) (*User, error)
	List(ctx context.Context, page PageRequest) ([]User, int64, error)
	Update(ctx context.Context, u *User) (*User, error)
	Delete(ctx context.Context, id string) error
	ExtendExpiry(ctx context.Context, id string, until time.Time) error
	CountByIDs(ctx context.Context, ids []string) (int64, error)
}

// GroupRepository provides CRUD operations for groups and membership.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	GetByID(ctx context.Context, id string) (*Group, error)
	List(ctx context.Context, page PageRequest) ([]Group, int64, error)
	UpdateName(ctx context.Context, id, name string) (*Group, error)
	Delete(ctx context.Context, id string) error
	AddMembers(ctx context.Context, groupID string, userIDs []string, assignedBy *string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ListMembers(ctx context.Context, groupID string, page PageRequest) ([]GroupMember, int64, error)
	CountMembers(ctx context.Context, groupID string) (int64, error)
	ListGroupIDsForUser(ctx context.Context, userID string) ([]string, error)
}

// PermissionRepository provides operations for the permission catalog and
// group-permission links.
type PermissionRepository interface {
	Create(ctx context.Context, p *Permission) (*Permission, error)
	List(ctx context.Context, page PageRequest) ([]Permission, int64, error)
	GetByIDs(ctx context.Context, ids []string) ([]Permission, error)
	ListForGroup(ctx context.Context, groupID string) ([]Permission, error)
	ListForGroups(ctx context.Context, groupIDs []string) ([]Permission, error)
	AttachToGroup(ctx context.Context, groupID string, permissionIDs []string, assignedBy *string) error
	DetachFromGroup(ctx context.Context, groupID string, permissionIDs []string) error
}

// CleanupRepository removes expired accounts and records cleanup runs.
type CleanupRepository interface {
	// PurgeExpired deletes every user whose expiry is at or before asOf,
	// removing their group memberships first. Returns the number of users
	// removed.
	PurgeExpired(ctx context.Context, asOf time.Time) (int64, error)
	RecordRun(ctx context.Context, removed int64, ranAt time.Time) error
}

// PasswordHasher is an opaque hash/verify capability for local credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
