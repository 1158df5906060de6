package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bookdeck/bookdeck/internal/database"
	"github.com/bookdeck/bookdeck/internal/entities"
	"github.com/bookdeck/bookdeck/internal/metadata"
)

// RefreshBookTask re-fetches one registered book's metadata and applies it.
type RefreshBookTask struct {
	ISBN13 string `json:"isbn13"`
}

// Config returns the queue configuration for metadata refresh tasks.
func (t RefreshBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BookUpdater is the slice of the book repository the refresh task needs.
type BookUpdater interface {
	UpdateInfo(book *entities.Book, authors []string) (*entities.Book, error)
}

// VolumeLookup resolves current metadata for an ISBN.
type VolumeLookup interface {
	LookupISBN(ctx context.Context, isbn13 string) (*metadata.Volume, error)
}

// RefreshBookProcessor creates a processor function for RefreshBookTask.
func RefreshBookProcessor(lookup VolumeLookup, store BookUpdater) backlite.QueueProcessor[RefreshBookTask] {
	return func(ctx context.Context, task RefreshBookTask) error {
		volume, err := lookup.LookupISBN(ctx, task.ISBN13)
		if err != nil {
			if errors.Is(err, metadata.ErrVolumeNotFound) {
				// Nothing to refresh from; not worth retrying.
				log.Printf("[TASK] Refresh %s: volume no longer resolvable, skipping", task.ISBN13)
				return nil
			}
			return fmt.Errorf("lookup %s: %w", task.ISBN13, err)
		}

		book := &entities.Book{
			ISBN13:        volume.ISBN13,
			Title:         volume.Title,
			Description:   volume.Description,
			Publisher:     volume.Publisher,
			PublishedDate: volume.PublishedDate,
			ImageURL:      volume.ImageURL,
		}

		if _, err := store.UpdateInfo(book, volume.Authors); err != nil {
			if database.IsNotFound(err) {
				// Book was deleted after the task was enqueued.
				log.Printf("[TASK] Refresh %s: book no longer registered, skipping", task.ISBN13)
				return nil
			}
			return fmt.Errorf("apply refresh for %s: %w", task.ISBN13, err)
		}

		log.Printf("[TASK] Refreshed metadata for %s (%s)", task.ISBN13, volume.Title)
		return nil
	}
}

// NewRefreshBookQueue creates a backlite queue for metadata refresh tasks.
func NewRefreshBookQueue(lookup VolumeLookup, store BookUpdater) backlite.Queue {
	return backlite.NewQueue(RefreshBookProcessor(lookup, store))
}
