// Package database owns the SQLite connection and the error taxonomy shared
// by the repositories built on top of it.
package database

import (
	"database/sql"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookdeck/bookdeck/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// New opens (or creates) the catalog database and migrates the schema.
// Foreign keys are enforced and WAL mode keeps readers off the writers' back;
// the busy timeout bounds how long a statement may block on the shared pool.
func New(dbPath string) (*Database, error) {
	dsn := dbPath + "?_journal=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Author{},
		&entities.Memo{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized at %s", dbPath)

	return &Database{DB: db}, nil
}

// SQLDB exposes the underlying pool for collaborators that speak
// database/sql, such as the session store.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
