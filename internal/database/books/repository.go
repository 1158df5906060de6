// Package books provides the catalog's book repository.
//
// Every operation that touches more than one table runs inside a single
// transaction, so a failed statement never leaves partial writes behind.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.Find("9780131103627")
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookdeck/bookdeck/internal/database"
	"github.com/bookdeck/bookdeck/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find retrieves a book with its authors in submission order.
// Returns database.ErrNotFound if no book has that ISBN.
func (r *Repository) Find(isbn13 string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.
		Preload("Authors", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("isbn13 = ?", isbn13).
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NotFound(isbn13)
	}
	if err != nil {
		return nil, fmt.Errorf("find book %s: %w", isbn13, err)
	}
	return &book, nil
}

// FindAll retrieves every registered book. An empty catalog yields an empty
// slice, not an error.
func (r *Repository) FindAll() ([]entities.Book, error) {
	var list []entities.Book
	err := r.db.
		Preload("Authors", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("find all books: %w", err)
	}
	return list, nil
}

// Create inserts the book row and one author row per name, all in one
// transaction. A duplicate ISBN surfaces as database.ErrRegistered straight
// from the uniqueness constraint; there is no existence pre-check, so
// concurrent creates of the same ISBN resolve to exactly one winner.
// On success the committed row is re-read and returned.
func (r *Repository) Create(book *entities.Book, authors []string) (*entities.Book, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Authors").Create(book).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return database.Registered(book.ISBN13)
			}
			return fmt.Errorf("insert book %s: %w", book.ISBN13, err)
		}
		for i, name := range authors {
			author := entities.Author{
				ISBN13:     book.ISBN13,
				Position:   i,
				AuthorName: name,
			}
			if err := tx.Create(&author).Error; err != nil {
				return fmt.Errorf("insert author %q for %s: %w", name, book.ISBN13, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Find(book.ISBN13)
}

// Delete removes the book and everything hanging off it in one transaction,
// children first: memos, then authors, then the book row. Zero rows affected
// on the book delete means the ISBN was never registered.
func (r *Repository) Delete(isbn13 string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("isbn13 = ?", isbn13).Delete(&entities.Memo{}).Error; err != nil {
			return fmt.Errorf("delete memos for %s: %w", isbn13, err)
		}
		if err := tx.Where("isbn13 = ?", isbn13).Delete(&entities.Author{}).Error; err != nil {
			return fmt.Errorf("delete authors for %s: %w", isbn13, err)
		}
		res := tx.Where("isbn13 = ?", isbn13).Delete(&entities.Book{})
		if res.Error != nil {
			return fmt.Errorf("delete book %s: %w", isbn13, res.Error)
		}
		if res.RowsAffected == 0 {
			return database.NotFound(isbn13)
		}
		return nil
	})
}

// UpdateInfo replaces a book's metadata fields and author list in one
// transaction. Memos are untouched. Used by the background metadata refresh.
func (r *Repository) UpdateInfo(book *entities.Book, authors []string) (*entities.Book, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Book{}).
			Where("isbn13 = ?", book.ISBN13).
			Updates(map[string]any{
				"title":          book.Title,
				"description":    book.Description,
				"publisher":      book.Publisher,
				"published_date": book.PublishedDate,
				"image_url":      book.ImageURL,
			})
		if res.Error != nil {
			return fmt.Errorf("update book %s: %w", book.ISBN13, res.Error)
		}
		if res.RowsAffected == 0 {
			return database.NotFound(book.ISBN13)
		}
		if err := tx.Where("isbn13 = ?", book.ISBN13).Delete(&entities.Author{}).Error; err != nil {
			return fmt.Errorf("clear authors for %s: %w", book.ISBN13, err)
		}
		for i, name := range authors {
			author := entities.Author{
				ISBN13:     book.ISBN13,
				Position:   i,
				AuthorName: name,
			}
			if err := tx.Create(&author).Error; err != nil {
				return fmt.Errorf("insert author %q for %s: %w", name, book.ISBN13, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Find(book.ISBN13)
}
