package http

import (
	"context"

	"github.com/bookdeck/bookdeck/internal/entities"
	"github.com/bookdeck/bookdeck/internal/metadata"
)

// Each controller depends on a narrow interface so test doubles stay small;
// the production implementations live in internal/database.

// BookStore is the catalog access the books controller needs.
type BookStore interface {
	Find(isbn13 string) (*entities.Book, error)
	FindAll() ([]entities.Book, error)
	Create(book *entities.Book, authors []string) (*entities.Book, error)
	Delete(isbn13 string) error
}

// MemoStore is the memo access the memos controller needs.
type MemoStore interface {
	Find(id string) (*entities.Memo, error)
	FindAll(isbn13 string) ([]entities.Memo, error)
	Create(text, isbn13 string) (*entities.Memo, error)
	Delete(id string) error
}

// VolumeLookup resolves book metadata for an ISBN before registration.
type VolumeLookup interface {
	LookupISBN(ctx context.Context, isbn13 string) (*metadata.Volume, error)
}
