package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/9778060/socialapi/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

// trimEmail strips surrounding whitespace only. Email is a case-sensitive
// natural key: the value is stored and matched exactly as the user typed it.
func trimEmail(email string) string {
	return strings.TrimSpace(email)
}

type userRow struct {
	ID           int64
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:           ur.ID,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		Confirmed:    ur.Confirmed,
		CreatedAt:    ur.CreatedAt,
	}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate")
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = trimEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT id, email, password_hash, confirmed, created_at
FROM users
WHERE email = $1
LIMIT 1;
`
	var ur userRow
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&ur.ID,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Confirmed,
		&ur.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = trimEmail(u.Email)
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO users (email, password_hash, confirmed)
VALUES ($1, $2, $3)
RETURNING id, email, password_hash, confirmed, created_at;
`
	var ur userRow
	err := r.db.QueryRowContext(ctx, q, u.Email, u.PasswordHash, u.Confirmed).Scan(
		&ur.ID,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Confirmed,
		&ur.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrUserExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) SetConfirmed(ctx context.Context, email string) error {
	email = trimEmail(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	const q = `
UPDATE users
SET confirmed = TRUE
WHERE email = $1;
`
	res, err := r.db.ExecContext(ctx, q, email)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}
