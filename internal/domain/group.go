package domain

import "time"

// Group represents a named collection of users.
type Group struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupMember represents the membership of a user in a group.
// AssignedBy is the id of the user that created the membership, nil when the
// assignment came from an automated path.
type GroupMember struct {
	GroupID    string
	UserID     string
	AssignedAt time.Time
	AssignedBy *string
}

// CreateGroupRequest holds parameters for creating a new group.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// Validate checks that the request is well-formed.
func (r *CreateGroupRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("group name is required")
	}
	return nil
}

// UpdateGroupRequest holds parameters for renaming a group.
type UpdateGroupRequest struct {
	Name string `json:"name"`
}

// Validate checks that the request is well-formed.
func (r *UpdateGroupRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("group name is required")
	}
	return nil
}

// AddGroupUsersRequest holds the user ids to add to a group. The operation is
// all-or-nothing: if any id does not exist, membership is left unchanged.
type AddGroupUsersRequest struct {
	UserIDs []string `json:"userIds"`
}

// Validate checks that the request is well-formed.
func (r *AddGroupUsersRequest) Validate() error {
	if len(r.UserIDs) == 0 {
		return ErrValidation("at least one user id is required")
	}
	for _, id := range r.UserIDs {
		if id == "" {
			return ErrValidation("user ids must not be empty")
		}
	}
	return nil
}
