package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdeck/bookdeck/internal/entities"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := New(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNew(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	// The schema is in place for all entities.
	for _, model := range []interface{}{
		&entities.User{},
		&entities.Book{},
		&entities.Author{},
		&entities.Memo{},
	} {
		assert.True(t, db.DB.Migrator().HasTable(model))
	}
}

func TestSQLDB(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sqlDB, err := db.SQLDB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestIsUniqueViolation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{ISBN13: "9780131103627", Title: "The C Programming Language"}
	require.NoError(t, db.DB.Create(book).Error)

	err := db.DB.Create(&entities.Book{ISBN13: "9780131103627", Title: "Duplicate"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}
