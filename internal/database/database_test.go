package database

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("empty url returns error", func(t *testing.T) {
		pool, err := Connect(context.Background(), "")
		assert.Nil(t, pool)
		assert.Error(t, err)
	})

	t.Run("malformed url returns error", func(t *testing.T) {
		pool, err := Connect(context.Background(), "postgres://%zz")
		assert.Nil(t, pool)
		assert.Error(t, err)
	})
}

func TestMigrate(t *testing.T) {
	t.Run("nil pool returns error", func(t *testing.T) {
		err := Migrate(context.Background(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database pool is required")
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(migrations, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "CREATE TABLE feedback")
}

func TestQB(t *testing.T) {
	query, args, err := QB.Select("id").From("feedback").Where("id = ?", 7).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM feedback WHERE id = $1", query)
	assert.Equal(t, []any{7}, args)
}
