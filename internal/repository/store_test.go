package repository

import (
	"path/filepath"
	"testing"

	"agora/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var quiet = &gorm.Config{Logger: logger.Discard}

// setupTestDB returns a migrated SQLite file in t's temp dir. Writers share
// one connection so concurrent tests never see SQLITE_BUSY.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agora.db")
	db, err := gorm.Open(sqlite.Open("file:"+path+"?_busy_timeout=5000"), quiet)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}))

	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	return db
}

// setupMockDB speaks the postgres dialect over sqlmock, for driver errors
// SQLite cannot produce.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), quiet)
	require.NoError(t, err)
	return db, mock
}
