// Package scheduler drives periodic catalog maintenance.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/bookdeck/bookdeck/internal/config"
	"github.com/bookdeck/bookdeck/internal/entities"
	"github.com/bookdeck/bookdeck/internal/tasks"
)

// BookLister is the slice of the book repository the scheduler needs.
type BookLister interface {
	FindAll() ([]entities.Book, error)
}

// MetadataRefreshScheduler periodically enqueues a metadata refresh task for
// every registered book. The actual fetching and updating happens on the
// task queue workers, never here.
type MetadataRefreshScheduler struct {
	store  BookLister
	queue  *tasks.Client
	config config.Refresh

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewMetadataRefreshScheduler creates a new scheduler instance.
func NewMetadataRefreshScheduler(store BookLister, queue *tasks.Client, cfg config.Refresh) *MetadataRefreshScheduler {
	return &MetadataRefreshScheduler{
		store:  store,
		queue:  queue,
		config: cfg,
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if refresh is enabled.
func (s *MetadataRefreshScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Metadata refresh scheduler: disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, s.enqueueAll); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Metadata refresh scheduler: started with schedule %q", s.config.Schedule)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *MetadataRefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	log.Printf("Metadata refresh scheduler: stopped")
}

// RunNow triggers an immediate refresh round.
func (s *MetadataRefreshScheduler) RunNow() {
	go s.enqueueAll()
}

func (s *MetadataRefreshScheduler) enqueueAll() {
	list, err := s.store.FindAll()
	if err != nil {
		log.Printf("Metadata refresh: listing books failed: %v", err)
		return
	}

	enqueued := 0
	for _, book := range list {
		task := tasks.RefreshBookTask{ISBN13: book.ISBN13}
		if _, err := s.queue.Add(task).Save(); err != nil {
			log.Printf("Metadata refresh: enqueue %s failed: %v", book.ISBN13, err)
			continue
		}
		enqueued++
	}

	log.Printf("Metadata refresh: enqueued %d of %d books", enqueued, len(list))
}
