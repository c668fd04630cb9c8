package user

import (
	"context"
	"errors"
	e "taskhive/internal/core/domain/errors"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/db"

	"github.com/jackc/pgx/v4"
)

// PgxSessionRepository reads the sessions table owned by the main application.
// This service only resolves the authenticated user, it never creates or
// deletes sessions.
type PgxSessionRepository struct {
	db db.DBTX
}

func NewPgxSessionRepository(db db.DBTX) *PgxSessionRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxSessionRepository{db: db}
}

func (r *PgxSessionRepository) GetUserByToken(ctx context.Context, token user.SessionToken) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.created_at, u.last_login_at
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.token = $1`,
		string(token),
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
