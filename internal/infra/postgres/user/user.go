package infra_postgres_user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/humanbelnik/columns/core/internal/model"
	usecase_account "github.com/humanbelnik/columns/core/internal/usecase/account"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

func (d *Driver) CreateUser(ctx context.Context, username string, passwordHash []byte) (model.UserID, error) {
	var id model.UserID

	query := `SELECT create_user($1, $2)`

	if err := d.db.GetContext(ctx, &id, query, username, passwordHash); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, usecase_account.ErrUserExists
		}
		return 0, err
	}
	return id, nil
}

// LoginUser returns the stored credentials; the password is checked by the caller.
func (d *Driver) LoginUser(ctx context.Context, username string) (model.User, error) {
	var user model.User

	query := `
		SELECT id, username, password_hash, created_at
		FROM login_user($1)
	`

	if err := d.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, usecase_account.ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}
