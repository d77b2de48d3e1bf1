package domain

import "context"

type userKey struct{}

// ContextUser carries the authenticated identity through request context.
// It is populated from verified session token claims by the authentication
// middleware and read by the authorization guards and handlers.
type ContextUser struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Country   string
	Company   *string
}

// WithUser stores a ContextUser in the context.
func WithUser(ctx context.Context, u ContextUser) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext extracts the ContextUser from the context.
func UserFromContext(ctx context.Context) (ContextUser, bool) {
	u, ok := ctx.Value(userKey{}).(ContextUser)
	return u, ok
}
