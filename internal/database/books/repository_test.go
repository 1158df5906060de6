package books

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookdeck/bookdeck/internal/database"
	"github.com/bookdeck/bookdeck/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()

	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Author{},
		&entities.Memo{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func kAndR() (*entities.Book, []string) {
	return &entities.Book{
		ISBN13:        "9780131103627",
		Title:         "The C Programming Language",
		Description:   "The authoritative reference.",
		Publisher:     "Prentice Hall",
		PublishedDate: "1988-03-22",
		ImageURL:      "http://example.com/k-and-r.jpg",
	}, []string{"Brian Kernighan", "Dennis Ritchie"}
}

func TestRepository_Create(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	book, authors := kAndR()
	created, err := repo.Create(book, authors)

	require.NoError(t, err)
	assert.Equal(t, "9780131103627", created.ISBN13)
	assert.Equal(t, "The C Programming Language", created.Title)
	assert.Equal(t, []string{"Brian Kernighan", "Dennis Ritchie"}, created.AuthorNames())
	assert.False(t, created.CreatedAt.IsZero())
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	book, authors := kAndR()
	_, err := repo.Create(book, authors)
	require.NoError(t, err)

	dup, _ := kAndR()
	dup.Title = "A Different Title"
	_, err = repo.Create(dup, []string{"Somebody Else"})

	require.Error(t, err)
	assert.True(t, database.IsRegistered(err))

	// The first registration must be untouched.
	found, err := repo.Find("9780131103627")
	require.NoError(t, err)
	assert.Equal(t, "The C Programming Language", found.Title)
	assert.Equal(t, []string{"Brian Kernighan", "Dennis Ritchie"}, found.AuthorNames())
}

func TestRepository_Create_ConcurrentSameISBN(t *testing.T) {
	// Concurrent writers need the WAL and busy-timeout pragmas the
	// production connection carries, so this test opens through database.New
	// instead of the bare fixture.
	db, err := database.New(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db.DB)

	const attempts = 4
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			book, authors := kAndR()
			_, err := repo.Create(book, authors)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// The constraint is the arbiter: exactly one create commits, every
	// other attempt reports the ISBN as registered.
	winners, losers := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			winners++
		case database.IsRegistered(err):
			losers++
		default:
			t.Fatalf("unexpected error from concurrent create: %v", err)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, attempts-1, losers)

	found, err := repo.Find("9780131103627")
	require.NoError(t, err)
	assert.Equal(t, []string{"Brian Kernighan", "Dennis Ritchie"}, found.AuthorNames())
}

func TestRepository_Find(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	book, authors := kAndR()
	_, err := repo.Create(book, authors)
	require.NoError(t, err)

	found, err := repo.Find("9780131103627")

	require.NoError(t, err)
	assert.Equal(t, "9780131103627", found.ISBN13)
	assert.Equal(t, "Prentice Hall", found.Publisher)
	assert.Equal(t, []string{"Brian Kernighan", "Dennis Ritchie"}, found.AuthorNames())
}

func TestRepository_Find_Missing(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Find("9999999999999")

	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))
}

func TestRepository_FindAll(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("empty catalog", func(t *testing.T) {
		list, err := repo.FindAll()
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("two books", func(t *testing.T) {
		book, authors := kAndR()
		_, err := repo.Create(book, authors)
		require.NoError(t, err)

		second := &entities.Book{ISBN13: "9780134685991", Title: "Effective Java"}
		_, err = repo.Create(second, []string{"Joshua Bloch"})
		require.NoError(t, err)

		list, err := repo.FindAll()
		require.NoError(t, err)
		require.Len(t, list, 2)

		isbns := []string{list[0].ISBN13, list[1].ISBN13}
		assert.Contains(t, isbns, "9780131103627")
		assert.Contains(t, isbns, "9780134685991")
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book, authors := kAndR()
	_, err := repo.Create(book, authors)
	require.NoError(t, err)

	memo := &entities.Memo{ID: "11111111-1111-1111-1111-111111111111", ISBN13: "9780131103627", Text: "re-read chapter 5"}
	require.NoError(t, db.Create(memo).Error)

	err = repo.Delete("9780131103627")
	require.NoError(t, err)

	_, err = repo.Find("9780131103627")
	assert.True(t, database.IsNotFound(err))

	// Author and memo rows go with the book.
	var authorCount, memoCount int64
	require.NoError(t, db.Model(&entities.Author{}).Where("isbn13 = ?", "9780131103627").Count(&authorCount).Error)
	require.NoError(t, db.Model(&entities.Memo{}).Where("isbn13 = ?", "9780131103627").Count(&memoCount).Error)
	assert.Zero(t, authorCount)
	assert.Zero(t, memoCount)
}

func TestRepository_Delete_Missing(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete("9999999999999")

	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))
}

func TestRepository_UpdateInfo(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	book, authors := kAndR()
	_, err := repo.Create(book, authors)
	require.NoError(t, err)

	refreshed := &entities.Book{
		ISBN13:        "9780131103627",
		Title:         "The C Programming Language (2nd Edition)",
		Description:   "Updated description.",
		Publisher:     "Prentice Hall",
		PublishedDate: "1988-04-01",
		ImageURL:      "http://example.com/k-and-r-2nd.jpg",
	}
	updated, err := repo.UpdateInfo(refreshed, []string{"Brian W. Kernighan", "Dennis M. Ritchie"})

	require.NoError(t, err)
	assert.Equal(t, "The C Programming Language (2nd Edition)", updated.Title)
	assert.Equal(t, []string{"Brian W. Kernighan", "Dennis M. Ritchie"}, updated.AuthorNames())

	found, err := repo.Find("9780131103627")
	require.NoError(t, err)
	assert.Equal(t, "Updated description.", found.Description)
	assert.Equal(t, []string{"Brian W. Kernighan", "Dennis M. Ritchie"}, found.AuthorNames())
}

func TestRepository_UpdateInfo_Missing(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	ghost := &entities.Book{ISBN13: "9999999999999", Title: "Ghost"}
	_, err := repo.UpdateInfo(ghost, nil)

	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))
}
