//go:build integration

package security

import (
	"context"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "github.com/Yet-Another-Check-In-System/auth-ms/internal/db"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/db/repository"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

func setupPermissionService(t *testing.T) (*PermissionService, *GroupService) {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	permissions := repository.NewPermissionRepo(db)
	groups := repository.NewGroupRepo(db)
	users := repository.NewUserRepo(db)
	logger := slog.New(slog.DiscardHandler)
	return NewPermissionService(permissions, groups, logger), NewGroupService(groups, users, logger)
}

func TestPermissionService_Create(t *testing.T) {
	svc, _ := setupPermissionService(t)

	p, err := svc.Create(context.Background(), "admin.reports.read")
	require.NoError(t, err)
	assert.Equal(t, "admin.reports.read", p.Name)
	assert.NotEmpty(t, p.ID)
}

func TestPermissionService_Create_MalformedName(t *testing.T) {
	svc, _ := setupPermissionService(t)

	for _, name := range []string{"", "admin", "admin.users", "admin..read", ".users.read"} {
		_, err := svc.Create(context.Background(), name)
		require.Error(t, err, "name %q", name)
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	}
}

func TestPermissionService_Create_Duplicate(t *testing.T) {
	svc, _ := setupPermissionService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "basic.reports.read")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "basic.reports.read")
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestPermissionService_AttachDetach(t *testing.T) {
	svc, groups := setupPermissionService(t)
	ctx := context.Background()

	g, err := groups.Create(ctx, domain.CreateGroupRequest{Name: "attach-target"})
	require.NoError(t, err)
	p, err := svc.Create(ctx, "admin.users.read")
	require.NoError(t, err)

	require.NoError(t, svc.AttachToGroup(ctx, g.ID,
		domain.AttachPermissionsRequest{PermissionIDs: []string{p.ID}}, nil))

	attached, err := svc.ListForGroup(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "admin.users.read", attached[0].Name)

	require.NoError(t, svc.DetachFromGroup(ctx, g.ID,
		domain.DetachPermissionsRequest{PermissionIDs: []string{p.ID}}))

	attached, err = svc.ListForGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)
}

// Re-attaching is skipped silently, the group ends up with one link.
func TestPermissionService_Attach_DuplicateSkipped(t *testing.T) {
	svc, groups := setupPermissionService(t)
	ctx := context.Background()

	g, err := groups.Create(ctx, domain.CreateGroupRequest{Name: "re-attach"})
	require.NoError(t, err)
	p, err := svc.Create(ctx, "admin.users.write")
	require.NoError(t, err)

	req := domain.AttachPermissionsRequest{PermissionIDs: []string{p.ID}}
	require.NoError(t, svc.AttachToGroup(ctx, g.ID, req, nil))
	require.NoError(t, svc.AttachToGroup(ctx, g.ID, req, nil))

	attached, err := svc.ListForGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, attached, 1)
}

// Attaching is all-or-nothing: one unknown permission id attaches nothing.
func TestPermissionService_Attach_AllOrNothing(t *testing.T) {
	svc, groups := setupPermissionService(t)
	ctx := context.Background()

	g, err := groups.Create(ctx, domain.CreateGroupRequest{Name: "strict-attach"})
	require.NoError(t, err)
	p, err := svc.Create(ctx, "basic.users.read")
	require.NoError(t, err)

	err = svc.AttachToGroup(ctx, g.ID, domain.AttachPermissionsRequest{
		PermissionIDs: []string{p.ID, "no-such-permission"},
	}, nil)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	attached, err := svc.ListForGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)
}

func TestPermissionService_Attach_UnknownGroup(t *testing.T) {
	svc, _ := setupPermissionService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "basic.groups.read")
	require.NoError(t, err)

	err = svc.AttachToGroup(ctx, "no-such-group",
		domain.AttachPermissionsRequest{PermissionIDs: []string{p.ID}}, nil)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
