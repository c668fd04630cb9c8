package user

import (
	"context"
	"database/sql"
	"errors"
	c "taskhive/internal/core/domain/common"
	e "taskhive/internal/core/domain/errors"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/db"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "users_email_idx"

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(db db.DBTX) *PgxUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, email, password_hash, first_name, last_name, created_at, last_login_at`,
		string(input.Email),
		string(input.PasswordHash),
		input.FirstName,
		input.LastName,
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME {
			return u, user.ErrEmailAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	if err := u.Validate(); err != nil {
		return u, err
	}
	return u, nil
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, last_login_at
		 FROM users WHERE id = $1`,
		int64(id),
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, nil
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, last_login_at
		 FROM users WHERE email = $1`,
		string(email),
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, nil
}

// SetPassword updates the hash only while the stored value is still the one
// the calling flow verified against, so concurrent rotations cannot silently
// overwrite each other.
func (r *PgxUserRepository) SetPassword(ctx context.Context, input user.SetPasswordInput) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2 AND password_hash = $3`,
		string(input.NewHash),
		int64(input.UserID),
		string(input.CurrentHash),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`,
		int64(input.UserID),
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return user.ErrUserDoesNotExist
	}
	return user.ErrCredentialConflict
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var lastLoginAt sql.NullTime
	var email, passwordHash string
	var createdAt time.Time
	err = row.Scan(&u.ID, &email, &passwordHash, &u.FirstName, &u.LastName, &createdAt, &lastLoginAt)
	if err != nil {
		return u, err
	}
	u.Email = c.Email(email)
	u.PasswordHash = user.PasswordHash(passwordHash)
	u.CreatedAt = createdAt
	u.LastLoginAt = c.NewOptional(lastLoginAt.Time, lastLoginAt.Valid)
	return u, nil
}
