package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"agora/internal/config"
	"agora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "agora", DBPassword: "secret"}
	assert.Equal(t,
		"host=db port=5432 user=agora password=secret dbname=posts sslmode=disable",
		DSN(cfg, "posts"))

	cfg.DBSSLMode = "require"
	assert.Contains(t, DSN(cfg, "users"), "dbname=users sslmode=require")
}

func TestOpen_MigratesOutsideProduction(t *testing.T) {
	db, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "posts.db")), false, &models.Post{}, &models.Comment{})
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable("posts"))
	assert.True(t, db.Migrator().HasTable("comments"))
	assert.False(t, db.Migrator().HasTable("users"))
}

func TestOpen_SkipsMigrationInProduction(t *testing.T) {
	db, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), true, &models.User{})
	require.NoError(t, err)
	defer Close(db)

	assert.False(t, db.Migrator().HasTable("users"))
}

func TestQueryLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := newQueryLogger(slog.New(slog.NewTextHandler(&buf, nil)), 200*time.Millisecond)
	ctx := context.Background()
	stmt := func(sql string) func() (string, int64) {
		return func() (string, int64) { return sql, 0 }
	}

	l.Trace(ctx, time.Now(), stmt("SELECT 1"), nil)
	l.Trace(ctx, time.Now(), stmt("SELECT missing"), gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(ctx, time.Now(), stmt("SELECT broken"), errors.New("syntax error"))
	assert.Contains(t, buf.String(), "query failed")
	assert.Contains(t, buf.String(), "syntax error")

	buf.Reset()
	l.Trace(ctx, time.Now().Add(-time.Second), stmt("SELECT slow"), nil)
	assert.Contains(t, buf.String(), "slow query")

	buf.Reset()
	l.LogMode(logger.Silent).Trace(ctx, time.Now(), stmt("SELECT broken"), errors.New("boom"))
	assert.Empty(t, buf.String())

	l.LogMode(logger.Info).Trace(ctx, time.Now(), stmt("SELECT 2"), nil)
	assert.Contains(t, buf.String(), "SELECT 2")
}
