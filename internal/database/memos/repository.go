// Package memos provides the memo repository.
//
// A memo may only be created while its book exists; the existence check and
// the insert share one transaction so the reference cannot go stale between
// them.
package memos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookdeck/bookdeck/internal/database"
	"github.com/bookdeck/bookdeck/internal/entities"
)

// Repository handles all memo database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new memos repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find retrieves a memo by id. Returns database.ErrNotFound if absent.
func (r *Repository) Find(id string) (*entities.Memo, error) {
	var memo entities.Memo
	err := r.db.Where("id = ?", id).First(&memo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find memo %s: %w", id, err)
	}
	return &memo, nil
}

// FindAll retrieves the memos attached to a book, oldest first. An unknown
// ISBN yields an empty slice; whether the book exists is not this method's
// concern.
func (r *Repository) FindAll(isbn13 string) ([]entities.Memo, error) {
	var list []entities.Memo
	err := r.db.
		Where("isbn13 = ?", isbn13).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("find memos for %s: %w", isbn13, err)
	}
	return list, nil
}

// Create attaches a memo to a book. The book's existence is checked inside
// the same transaction as the insert; a missing book aborts with
// database.ErrNotFound and no memo row is persisted.
func (r *Repository) Create(text, isbn13 string) (*entities.Memo, error) {
	memo := entities.Memo{
		ID:     uuid.NewString(),
		ISBN13: isbn13,
		Text:   text,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Book{}).Where("isbn13 = ?", isbn13).Count(&count).Error; err != nil {
			return fmt.Errorf("check book %s: %w", isbn13, err)
		}
		if count == 0 {
			return database.NotFound(isbn13)
		}
		if err := tx.Create(&memo).Error; err != nil {
			return fmt.Errorf("insert memo for %s: %w", isbn13, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &memo, nil
}

// Delete removes a memo by id, checking existence first in the same
// transaction. Returns database.ErrNotFound if the memo does not exist.
func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Memo{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("check memo %s: %w", id, err)
		}
		if count == 0 {
			return database.NotFound(id)
		}
		if err := tx.Where("id = ?", id).Delete(&entities.Memo{}).Error; err != nil {
			return fmt.Errorf("delete memo %s: %w", id, err)
		}
		return nil
	})
}
