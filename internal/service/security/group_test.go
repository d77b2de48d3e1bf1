//go:build integration

package security

import (
	"context"
	"log/slog"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "github.com/Yet-Another-Check-In-System/auth-ms/internal/db"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/db/repository"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

func setupGroupService(t *testing.T) (*GroupService, *repository.UserRepo) {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	groups := repository.NewGroupRepo(db)
	users := repository.NewUserRepo(db)
	return NewGroupService(groups, users, slog.New(slog.DiscardHandler)), users
}

func createTestUser(t *testing.T, users *repository.UserRepo, email string) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), &domain.User{
		ID:        domain.NewID(),
		FirstName: "Member",
		LastName:  "User",
		Email:     email,
		Country:   "FI",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return u
}

func TestGroupService_Create(t *testing.T) {
	svc, _ := setupGroupService(t)

	g, err := svc.Create(context.Background(), domain.CreateGroupRequest{Name: "engineering"})
	require.NoError(t, err)
	assert.Equal(t, "engineering", g.Name)
	assert.NotEmpty(t, g.ID)
}

func TestGroupService_Create_DuplicateName(t *testing.T) {
	svc, _ := setupGroupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateGroupRequest{Name: "ops"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateGroupRequest{Name: "ops"})
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestGroupService_Create_EmptyName(t *testing.T) {
	svc, _ := setupGroupService(t)

	_, err := svc.Create(context.Background(), domain.CreateGroupRequest{Name: ""})
	require.Error(t, err)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestGroupService_Delete_Empty(t *testing.T) {
	svc, _ := setupGroupService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, domain.CreateGroupRequest{Name: "short-lived"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, g.ID))

	_, err = svc.Get(ctx, g.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// A group that still has members cannot be deleted.
func TestGroupService_Delete_WithMembers(t *testing.T) {
	svc, users := setupGroupService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, domain.CreateGroupRequest{Name: "occupied"})
	require.NoError(t, err)
	u := createTestUser(t, users, "member@example.com")
	require.NoError(t, svc.AddUsers(ctx, g.ID, domain.AddGroupUsersRequest{UserIDs: []string{u.ID}}, nil))

	err = svc.Delete(ctx, g.ID)
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)

	// Removing the member unblocks deletion.
	require.NoError(t, svc.RemoveUser(ctx, g.ID, u.ID))
	assert.NoError(t, svc.Delete(ctx, g.ID))
}

func TestGroupService_Delete_Unknown(t *testing.T) {
	svc, _ := setupGroupService(t)

	err := svc.Delete(context.Background(), "no-such-group")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// AddUsers is all-or-nothing: one unknown id keeps every listed user out.
func TestGroupService_AddUsers_AllOrNothing(t *testing.T) {
	svc, users := setupGroupService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, domain.CreateGroupRequest{Name: "strict"})
	require.NoError(t, err)
	u := createTestUser(t, users, "real@example.com")

	err = svc.AddUsers(ctx, g.ID, domain.AddGroupUsersRequest{
		UserIDs: []string{u.ID, "no-such-user"},
	}, nil)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	members, total, err := svc.ListMembers(ctx, g.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, members)
}

// Re-adding an existing member is not an error and does not duplicate the row.
func TestGroupService_AddUsers_DuplicateSkipped(t *testing.T) {
	svc, users := setupGroupService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, domain.CreateGroupRequest{Name: "idempotent"})
	require.NoError(t, err)
	u := createTestUser(t, users, "repeat@example.com")

	require.NoError(t, svc.AddUsers(ctx, g.ID, domain.AddGroupUsersRequest{UserIDs: []string{u.ID}}, nil))
	require.NoError(t, svc.AddUsers(ctx, g.ID, domain.AddGroupUsersRequest{UserIDs: []string{u.ID}}, nil))

	_, total, err := svc.ListMembers(ctx, g.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestGroupService_AddUsers_RecordsAssigner(t *testing.T) {
	svc, users := setupGroupService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, domain.CreateGroupRequest{Name: "audited"})
	require.NoError(t, err)
	admin := createTestUser(t, users, "admin@example.com")
	member := createTestUser(t, users, "assigned@example.com")

	require.NoError(t, svc.AddUsers(ctx, g.ID,
		domain.AddGroupUsersRequest{UserIDs: []string{member.ID}}, &admin.ID))

	members, _, err := svc.ListMembers(ctx, g.ID, domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NotNil(t, members[0].AssignedBy)
	assert.Equal(t, admin.ID, *members[0].AssignedBy)
}

func TestGroupService_RemoveUser_NotMember(t *testing.T) {
	svc, users := setupGroupService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, domain.CreateGroupRequest{Name: "sparse"})
	require.NoError(t, err)
	u := createTestUser(t, users, "outsider@example.com")

	err = svc.RemoveUser(ctx, g.ID, u.ID)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestGroupService_Update(t *testing.T) {
	svc, _ := setupGroupService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, domain.CreateGroupRequest{Name: "old-name"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, g.ID, domain.UpdateGroupRequest{Name: "new-name"})
	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Name)
}
