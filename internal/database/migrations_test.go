package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "001_create.sql"),
		[]byte("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "rollback_001_create.sql"),
		[]byte("DROP TABLE notes;"), 0o644))

	t.Run("Success - applies pending files once", func(t *testing.T) {
		applied, err := RunMigrations(db, dir)
		assert.NoError(t, err)
		assert.Equal(t, []string{"001_create.sql"}, applied)

		applied, err = RunMigrations(db, dir)
		assert.NoError(t, err)
		assert.Empty(t, applied)

		migrations, err := GetAppliedMigrations(db)
		assert.NoError(t, err)
		assert.Len(t, migrations, 1)
	})

	t.Run("Success - rollback removes the record", func(t *testing.T) {
		err := RollbackMigration(db, dir, "001_create.sql")
		assert.NoError(t, err)

		migrations, err := GetAppliedMigrations(db)
		assert.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("Error - unknown version", func(t *testing.T) {
		err := RollbackMigration(db, dir, "999_missing.sql")
		assert.Error(t, err)
	})
}

func TestMigrateCreatesTables(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Migrate(db))

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
