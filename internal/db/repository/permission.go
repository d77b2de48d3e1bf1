package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

type PermissionRepo struct {
	db *sql.DB
}

func NewPermissionRepo(db *sql.DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

func scanPermission(row rowScanner) (*domain.Permission, error) {
	var p domain.Permission
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &p, nil
}

func (r *PermissionRepo) Create(ctx context.Context, p *domain.Permission) (*domain.Permission, error) {
	created := *p
	if created.ID == "" {
		created.ID = domain.NewID()
	}
	created.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO permissions (id, name, created_at) VALUES (?, ?, ?)`,
		created.ID, created.Name, created.CreatedAt,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &created, nil
}

func (r *PermissionRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Permission, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM permissions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM permissions ORDER BY name LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectPermissions(rows, total)
}

func (r *PermissionRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM permissions WHERE id IN (`+placeholders(len(ids))+`)`,
		toArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms, _, err := collectPermissions(rows, 0)
	return perms, err
}

func (r *PermissionRepo) ListForGroup(ctx context.Context, groupID string) ([]domain.Permission, error) {
	return r.ListForGroups(ctx, []string{groupID})
}

// ListForGroups returns every permission attached to any of the given groups.
// The same permission reached through multiple groups appears once.
func (r *PermissionRepo) ListForGroups(ctx context.Context, groupIDs []string) ([]domain.Permission, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT p.id, p.name, p.created_at
		FROM permissions p
		JOIN group_permissions gp ON gp.permission_id = p.id
		WHERE gp.group_id IN (`+placeholders(len(groupIDs))+`)`,
		toArgs(groupIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms, _, err := collectPermissions(rows, 0)
	return perms, err
}

// AttachToGroup links permissions to a group in one transaction. Pairs that
// already exist are skipped.
func (r *PermissionRepo) AttachToGroup(ctx context.Context, groupID string, permissionIDs []string, assignedBy *string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, permissionID := range permissionIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO group_permissions (group_id, permission_id, assigned_at, assigned_by)
			VALUES (?, ?, ?, ?)`,
			groupID, permissionID, now, nullString(assignedBy),
		)
		if err != nil {
			return mapDBError(err)
		}
	}
	return tx.Commit()
}

func (r *PermissionRepo) DetachFromGroup(ctx context.Context, groupID string, permissionIDs []string) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	args := append([]any{groupID}, toArgs(permissionIDs)...)
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM group_permissions WHERE group_id = ? AND permission_id IN (`+placeholders(len(permissionIDs))+`)`,
		args...)
	return mapDBError(err)
}

func collectPermissions(rows *sql.Rows, total int64) ([]domain.Permission, int64, error) {
	var perms []domain.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, 0, err
		}
		perms = append(perms, *p)
	}
	return perms, total, rows.Err()
}
