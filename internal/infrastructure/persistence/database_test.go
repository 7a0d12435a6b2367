package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPingMockDB opens GORM over a sqlmock that records pings. GORM pings once
// while opening, so that ping is expected here.
func newPingMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestDatabase_Setup(t *testing.T) {
	ctx := context.Background()
	cfg := &config.DatabaseConfig{MaxOpenConns: 4, MaxIdleConns: 2}

	t.Run("runs hooks and pings", func(t *testing.T) {
		gormDB, mock := newPingMockDB(t)
		mock.ExpectPing()

		var hooked *gorm.DB
		db, err := setup(ctx, gormDB, cfg, []func(*gorm.DB) error{
			func(d *gorm.DB) error { hooked = d; return nil },
		})
		require.NoError(t, err)
		assert.Same(t, gormDB, hooked)
		assert.Same(t, gormDB, db.DB)

		sqlDB, err := db.DB.DB()
		require.NoError(t, err)
		assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a failing hook closes the pool", func(t *testing.T) {
		gormDB, mock := newPingMockDB(t)
		mock.ExpectClose()

		_, err := setup(ctx, gormDB, cfg, []func(*gorm.DB) error{
			func(*gorm.DB) error { return errors.New("callback already registered") },
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "callback already registered")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an unreachable database fails", func(t *testing.T) {
		gormDB, mock := newPingMockDB(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectClose()

		_, err := setup(ctx, gormDB, cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ping database")
	})
}

func TestDatabase_PingAndClose(t *testing.T) {
	gormDB, mock := newPingMockDB(t)
	db := &Database{DB: gormDB}

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
