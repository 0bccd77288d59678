package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "app.db?_pragma=foreign_keys(1)", withForeignKeys("app.db"))
	assert.Equal(t, "file:x?mode=memory&_pragma=foreign_keys(1)", withForeignKeys("file:x?mode=memory"))
	assert.Equal(t, "x?_pragma=foreign_keys(0)", withForeignKeys("x?_pragma=foreign_keys(0)"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.Error(t, err)
}

func TestMigrateCreatesTables(t *testing.T) {
	db, err := Open("sqlite", "file:migrate_test?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "arts", "comments", "commissions", "media_objects", "art_user", "user_follows", "commission_payments"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	// running twice is harmless
	require.NoError(t, Migrate(db))
}
