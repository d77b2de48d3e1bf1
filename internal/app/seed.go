package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

// defaultPermissions is the catalog every deployment starts with. Names
// follow <tier>.<resource>.<action>.
var defaultPermissions = []string{
	"basic.users.read",
	"basic.users.write",
	"basic.permissions.read",
	"admin.users.read",
	"admin.users.write",
	"admin.groups.read",
	"admin.groups.write",
	"admin.permissions.read",
	"admin.permissions.write",
	"basic.groups.read",
}

// seedPermissions inserts the default permission catalog. Idempotent —
// permissions that already exist are left untouched.
func seedPermissions(ctx context.Context, permissions domain.PermissionRepository, logger *slog.Logger) error {
	created := 0
	for _, name := range defaultPermissions {
		_, err := permissions.Create(ctx, &domain.Permission{
			ID:   domain.NewID(),
			Name: name,
		})
		if err != nil {
			var conflict *domain.ConflictError
			if errors.As(err, &conflict) {
				continue // already seeded
			}
			return fmt.Errorf("create permission %s: %w", name, err)
		}
		created++
	}
	if created > 0 {
		logger.Info("seeded permission catalog", "created", created)
	}
	return nil
}
