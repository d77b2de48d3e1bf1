package repository

import (
	"context"
	"database/sql"
	"time"
)

type CleanupRepo struct {
	db *sql.DB
}

func NewCleanupRepo(db *sql.DB) *CleanupRepo {
	return &CleanupRepo{db: db}
}

// PurgeExpired removes every user whose expiry is at or before asOf.
// Memberships are removed first so the user delete never hits a foreign key.
func (r *CleanupRepo) PurgeExpired(ctx context.Context, asOf time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM group_members WHERE user_id IN (SELECT id FROM users WHERE expires_at <= ?)`,
		asOf.UTC())
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE expires_at <= ?`, asOf.UTC())
	if err != nil {
		return 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return removed, tx.Commit()
}

func (r *CleanupRepo) RecordRun(ctx context.Context, removed int64, ranAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cleanup_log (removed_count, ran_at) VALUES (?, ?)`,
		removed, ranAt.UTC())
	return err
}
