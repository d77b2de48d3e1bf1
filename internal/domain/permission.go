package domain

import (
	"strings"
	"time"
)

// Tier is the leading segment of a permission name. It encodes scope of
// effect: basic-tier permissions authorize acting on oneself, admin-tier
// permissions authorize acting on any subject.
type Tier string

// Known tiers.
const (
	TierBasic Tier = "basic"
	TierAdmin Tier = "admin"
)

// Permission is a named capability, dot-delimited as <tier>.<resource>.<action>
// (e.g. "admin.users.read"). The permission catalog is managed by
// administrators and is immutable from the authorization path.
type Permission struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// GroupPermission links a permission to a group. Unique per (group,
// permission) pair; duplicate attachments are skipped, never double-counted.
type GroupPermission struct {
	GroupID      string
	PermissionID string
	AssignedAt   time.Time
	AssignedBy   *string
}

// PermissionParts is the structured form of a permission name, parsed once at
// the boundary so the rest of the code is not splitting strings on ".".
type PermissionParts struct {
	Tier     Tier
	Resource string
	Action   string
}

// ParsePermissionName splits a dot-delimited permission name into its parts.
// Names with fewer than three segments are rejected; extra segments are folded
// into the action.
func ParsePermissionName(name string) (PermissionParts, error) {
	segments := strings.SplitN(name, ".", 3)
	if len(segments) < 3 || segments[0] == "" || segments[1] == "" || segments[2] == "" {
		return PermissionParts{}, ErrValidation("permission name %q must have the form <tier>.<resource>.<action>", name)
	}
	return PermissionParts{
		Tier:     Tier(segments[0]),
		Resource: segments[1],
		Action:   segments[2],
	}, nil
}

// PermissionTier returns the tier segment of a permission name, or an empty
// tier when the name is malformed.
func PermissionTier(name string) Tier {
	parts, err := ParsePermissionName(name)
	if err != nil {
		return Tier("")
	}
	return parts.Tier
}

// AttachPermissionsRequest holds the permission ids to attach to a group.
// Attachment is all-or-nothing: if any id does not exist in the catalog the
// group is left unchanged.
type AttachPermissionsRequest struct {
	PermissionIDs []string `json:"permissionIds"`
}

// Validate checks that the request is well-formed.
func (r *AttachPermissionsRequest) Validate() error {
	if len(r.PermissionIDs) == 0 {
		return ErrValidation("at least one permission id is required")
	}
	for _, id := range r.PermissionIDs {
		if id == "" {
			return ErrValidation("permission ids must not be empty")
		}
	}
	return nil
}

// DetachPermissionsRequest holds the permission ids to detach from a group.
type DetachPermissionsRequest struct {
	PermissionIDs []string `json:"permissionIds"`
}

// Validate checks that the request is well-formed.
func (r *DetachPermissionsRequest) Validate() error {
	if len(r.PermissionIDs) == 0 {
		return ErrValidation("at least one permission id is required")
	}
	return nil
}
