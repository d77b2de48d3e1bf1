package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

const userColumns = `id, first_name, last_name, email, password_hash, country, company,
	apple_id, google_id, microsoft_id, expires_at, created_at, updated_at`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var passwordHash, company, appleID, googleID, microsoftID sql.NullString
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &passwordHash, &u.Country, &company,
		&appleID, &googleID, &microsoftID, &u.ExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	u.PasswordHash = fromNullString(passwordHash)
	u.Company = fromNullString(company)
	u.AppleID = fromNullString(appleID)
	u.GoogleID = fromNullString(googleID)
	u.MicrosoftID = fromNullString(microsoftID)
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	created := *u
	if created.ID == "" {
		created.ID = domain.NewID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password_hash, country, company,
			apple_id, google_id, microsoft_id, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.FirstName, created.LastName, created.Email,
		nullString(created.PasswordHash), created.Country, nullString(created.Company),
		nullString(created.AppleID), nullString(created.GoogleID), nullString(created.MicrosoftID),
		created.ExpiresAt, created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &created, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, country = ?, company = ?, updated_at = ?
		WHERE id = ?`,
		u.FirstName, u.LastName, u.Country, nullString(u.Company), time.Now().UTC(), u.ID,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrNotFound("user %s not found", u.ID)
	}
	return r.GetByID(ctx, u.ID)
}

// Delete removes a user and their group memberships in one transaction.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM group_members WHERE user_id = ?`, id); err != nil {
		return mapDBError(err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("user %s not found", id)
	}
	return tx.Commit()
}

// GetByExternalID looks a user up by a linked external identity.
// provider is one of "apple", "google", "microsoft".
func (r *UserRepo) GetByExternalID(ctx context.Context, provider, externalID string) (*domain.User, error) {
	var column string
	switch provider {
	case "apple":
		column = "apple_id"
	case "google":
		column = "google_id"
	case "microsoft":
		column = "microsoft_id"
	default:
		return nil, domain.ErrValidation("unknown identity provider %q", provider)
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, externalID)
	return scanUser(row)
}

func (r *UserRepo) ExtendExpiry(ctx context.Context, id string, until time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET expires_at = ?, updated_at = ? WHERE id = ?`,
		until.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("user %s not found", id)
	}
	return nil
}

func (r *UserRepo) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE id IN (`+placeholders(len(ids))+`)`,
		toArgs(ids)...,
	).Scan(&count)
	return count, err
}
