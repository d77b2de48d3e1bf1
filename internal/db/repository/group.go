package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

type GroupRepo struct {
	db *sql.DB
}

func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

func scanGroup(row rowScanner) (*domain.Group, error) {
	var g domain.Group
	if err := row.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &g, nil
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	now := time.Now().UTC()
	created := *g
	if created.ID == "" {
		created.ID = domain.NewID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		created.ID, created.Name, created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &created, nil
}

func (r *GroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM groups WHERE id = ?`, id)
	return scanGroup(row)
}

func (r *GroupRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Group, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM groups ORDER BY name LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, *g)
	}
	return groups, total, rows.Err()
}

func (r *GroupRepo) UpdateName(ctx context.Context, id, name string) (*domain.Group, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE groups SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrNotFound("group %s not found", id)
	}
	return r.GetByID(ctx, id)
}

func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("group %s not found", id)
	}
	return nil
}

// AddMembers inserts memberships for all the given users in one transaction.
// Existing (group, user) pairs are skipped rather than duplicated.
func (r *GroupRepo) AddMembers(ctx context.Context, groupID string, userIDs []string, assignedBy *string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, userID := range userIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO group_members (group_id, user_id, assigned_at, assigned_by)
			VALUES (?, ?, ?, ?)`,
			groupID, userID, now, nullString(assignedBy),
		)
		if err != nil {
			return mapDBError(err)
		}
	}
	return tx.Commit()
}

func (r *GroupRepo) RemoveMember(ctx context.Context, groupID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("user %s is not a member of group %s", userID, groupID)
	}
	return nil
}

func (r *GroupRepo) ListMembers(ctx context.Context, groupID string, page domain.PageRequest) ([]domain.GroupMember, int64, error) {
	total, err := r.CountMembers(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT group_id, user_id, assigned_at, assigned_by FROM group_members
		WHERE group_id = ? ORDER BY assigned_at, user_id LIMIT ? OFFSET ?`,
		groupID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []domain.GroupMember
	for rows.Next() {
		var m domain.GroupMember
		var assignedBy sql.NullString
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.AssignedAt, &assignedBy); err != nil {
			return nil, 0, err
		}
		m.AssignedBy = fromNullString(assignedBy)
		members = append(members, m)
	}
	return members, total, rows.Err()
}

func (r *GroupRepo) CountMembers(ctx context.Context, groupID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM group_members WHERE group_id = ?`, groupID).Scan(&count)
	return count, err
}

func (r *GroupRepo) ListGroupIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT group_id FROM group_members WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
