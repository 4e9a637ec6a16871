package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9778060/socialapi/internal/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock database")
	return db, mock
}

func userColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "confirmed", "created_at"})
}

func TestUserRepo_Create_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewUserRepo(db)

	createdAt := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Test@Example.com", "$2a$10$hash", false).
		WillReturnRows(userColumns().AddRow(int64(1), "Test@Example.com", "$2a$10$hash", false, createdAt))

	u, err := repo.Create(context.Background(), domain.User{
		Email:        " Test@Example.com ",
		PasswordHash: "$2a$10$hash",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "Test@Example.com", u.Email, "email case must be stored as typed")
	assert.False(t, u.Confirmed)
	assert.Equal(t, createdAt, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_UniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("test@example.com", "$2a$10$hash", false).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), domain.User{
		Email:        "test@example.com",
		PasswordHash: "$2a$10$hash",
	})

	assert.True(t, domain.Is(err, "user_exists"), "expected user_exists, got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_MissingFields(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	repo := NewUserRepo(db)

	_, err := repo.Create(context.Background(), domain.User{PasswordHash: "x"})
	assert.True(t, domain.Is(err, "missing_field"))

	_, err = repo.Create(context.Background(), domain.User{Email: "a@test.com"})
	assert.True(t, domain.Is(err, "missing_field"))
}

func TestUserRepo_GetByEmail_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewUserRepo(db)

	createdAt := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, email, password_hash, confirmed, created_at`).
		WithArgs("test@example.com").
		WillReturnRows(userColumns().AddRow(int64(7), "test@example.com", "$2a$10$hash", true, createdAt))

	u, err := repo.GetByEmail(context.Background(), "test@example.com")

	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.True(t, u.Confirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Email is a case-sensitive key; the lookup must pass the caller's exact
// casing to the store so "Alice@Test.COM" and "alice@test.com" are distinct
// accounts.
func TestUserRepo_GetByEmail_CasePreserved(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewUserRepo(db)

	createdAt := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, email, password_hash, confirmed, created_at`).
		WithArgs("Alice@Test.COM").
		WillReturnRows(userColumns().AddRow(int64(3), "Alice@Test.COM", "$2a$10$hash", true, createdAt))

	u, err := repo.GetByEmail(context.Background(), "Alice@Test.COM")

	require.NoError(t, err)
	assert.Equal(t, "Alice@Test.COM", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectQuery(`SELECT id, email, password_hash, confirmed, created_at`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.True(t, domain.Is(err, "user_not_found"), "expected user_not_found, got %v", err)
}

func TestUserRepo_GetByEmail_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectQuery(`SELECT id, email, password_hash, confirmed, created_at`).
		WithArgs("test@example.com").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.GetByEmail(context.Background(), "test@example.com")
	assert.True(t, domain.Is(err, "db_unavailable"), "expected db_unavailable, got %v", err)
}

func TestUserRepo_SetConfirmed_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("test@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetConfirmed(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetConfirmed_NoRow(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("ghost@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetConfirmed(context.Background(), "ghost@example.com")
	assert.True(t, domain.Is(err, "user_not_found"), "expected user_not_found, got %v", err)
}
