package infra_postgres_user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	usecase_account "github.com/humanbelnik/columns/core/internal/usecase/account"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type UserInfraSuite struct {
	suite.Suite
}

type resources struct {
	mock   sqlmock.Sqlmock
	driver *Driver
	ctx    context.Context
}

func initResources(t provider.T) *resources {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &resources{
		mock:   mock,
		driver: New(sqlx.NewDb(db, "sqlmock")),
		ctx:    context.Background(),
	}
}

func (s *UserInfraSuite) TestCreateUser(t provider.T) {
	query := regexp.QuoteMeta(`SELECT create_user($1, $2)`)
	hash := []byte("$2a$04$hash")

	t.Run("Should return new user id", func(t provider.T) {
		r := initResources(t)
		r.mock.ExpectQuery(query).WithArgs("alice", hash).
			WillReturnRows(sqlmock.NewRows([]string{"create_user"}).AddRow(5))

		id, err := r.driver.CreateUser(r.ctx, "alice", hash)

		assert.NoError(t, err)
		assert.Equal(t, int64(5), id)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})

	t.Run("Should translate unique violation", func(t provider.T) {
		r := initResources(t)
		r.mock.ExpectQuery(query).WithArgs("alice", hash).
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

		_, err := r.driver.CreateUser(r.ctx, "alice", hash)

		assert.ErrorIs(t, err, usecase_account.ErrUserExists)
	})

	t.Run("Should pass through other errors", func(t provider.T) {
		r := initResources(t)
		dbErr := errors.New("connection reset")
		r.mock.ExpectQuery(query).WillReturnError(dbErr)

		_, err := r.driver.CreateUser(r.ctx, "alice", hash)

		assert.ErrorIs(t, err, dbErr)
	})
}

func (s *UserInfraSuite) TestLoginUser(t provider.T) {
	query := regexp.QuoteMeta(`FROM login_user($1)`)

	t.Run("Should return stored credentials", func(t provider.T) {
		r := initResources(t)
		created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		r.mock.ExpectQuery(query).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
				AddRow(5, "alice", []byte("hash"), created))

		user, err := r.driver.LoginUser(r.ctx, "alice")

		assert.NoError(t, err)
		assert.Equal(t, int64(5), user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, []byte("hash"), user.PasswordHash)
		assert.Equal(t, created, user.CreatedAt)
	})

	t.Run("Should report unknown user", func(t provider.T) {
		r := initResources(t)
		r.mock.ExpectQuery(query).WithArgs("mallory").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

		_, err := r.driver.LoginUser(r.ctx, "mallory")

		assert.ErrorIs(t, err, usecase_account.ErrUserNotFound)
	})
}

func TestUserInfraSuite(t *testing.T) {
	suite.RunSuite(t, new(UserInfraSuite))
}
