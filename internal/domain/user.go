package domain

import (
	"net/mail"
	"time"
)

// User represents an account principal. PasswordHash is nil for accounts
// that only have an external identity. At most one of the external identity
// fields is set.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash *string
	Country      string
	Company      *string
	AppleID      *string
	GoogleID     *string
	MicrosoftID  *string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExportedUser is the client-safe projection of a User: no credential hash,
// no external identity linkage, no expiry bookkeeping.
type ExportedUser struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Country   string  `json:"country"`
	Company   *string `json:"company"`
}

// Export strips everything that must not leave the service boundary.
func (u *User) Export() ExportedUser {
	return ExportedUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Country:   u.Country,
		Company:   u.Company,
	}
}

// SignupRequest holds parameters for creating a local-credential account.
type SignupRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Country   string  `json:"country"`
	Company   *string `json:"company"`
}

// Validate checks that the request is well-formed.
func (r *SignupRequest) Validate() error {
	if r.FirstName == "" {
		return ErrValidation("firstName is required")
	}
	if r.LastName == "" {
		return ErrValidation("lastName is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrValidation("email is not a valid address")
	}
	if len(r.Password) < 8 {
		return ErrValidation("password must be at least 8 characters")
	}
	if len(r.Country) != 2 {
		return ErrValidation("country must be an ISO 3166-1 alpha-2 code")
	}
	return nil
}

// LoginRequest holds local login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that the request is well-formed.
func (r *LoginRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrValidation("email is not a valid address")
	}
	if len(r.Password) < 8 {
		return ErrValidation("password must be at least 8 characters")
	}
	return nil
}

// UpdateUserRequest holds the mutable profile fields. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Country   *string `json:"country"`
	Company   *string `json:"company"`
}

// Validate checks that the request is well-formed.
func (r *UpdateUserRequest) Validate() error {
	if r.FirstName == nil && r.LastName == nil && r.Country == nil && r.Company == nil {
		return ErrValidation("at least one field must be provided")
	}
	if r.FirstName != nil && *r.FirstName == "" {
		return ErrValidation("firstName must not be empty")
	}
	if r.LastName != nil && *r.LastName == "" {
		return ErrValidation("lastName must not be empty")
	}
	if r.Country != nil && len(*r.Country) != 2 {
		return ErrValidation("country must be an ISO 3166-1 alpha-2 code")
	}
	return nil
}
