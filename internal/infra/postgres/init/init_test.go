package infra_pg_init

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/humanbelnik/columns/core/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Postgres{
		Host: "db", Port: "5432", User: "u", Password: "p", DBName: "columns", SSLMode: "disable",
	})

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=columns sslmode=disable", dsn)
}

func TestWaitReadyRetriesUntilPingSucceeds(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing()

	err = WaitReady(context.Background(), sqlx.NewDb(db, "sqlmock"), time.Millisecond, slog.Default())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitReadyStopsOnCancel(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = WaitReady(ctx, sqlx.NewDb(db, "sqlmock"), time.Hour, slog.Default())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
