package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, username, resume_name, resume_data, password, created_at, updated_at`

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
ORDER BY created_at ASC
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) UpsertByEmail(ctx context.Context, email string, update Update) (User, error) {
	if update.empty() {
		return r.FindByEmail(ctx, email)
	}
	const query = `
UPDATE users SET
  name = COALESCE($2, name),
  resume_name = COALESCE($3, resume_name),
  resume_data = COALESCE($4, resume_data),
  updated_at = now()
WHERE email = $1
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query,
		email,
		optional(update.Name),
		optional(update.ResumeName),
		optional(update.ResumeData),
	))
}

func (r *PGRepo) Insert(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, name, email, username, resume_name, resume_data, password, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt

	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		nullableString(user.Username),
		nullableString(user.ResumeName),
		nullableString(user.ResumeData),
		nullableString(user.Password),
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrDuplicateEmail
		}
		return User{}, err
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var username, resumeName, resumeData, password sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&username,
		&resumeName,
		&resumeData,
		&password,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Username = username.String
	user.ResumeName = resumeName.String
	user.ResumeData = resumeData.String
	user.Password = password.String
	return user, nil
}

func optional(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
