package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookdeck/bookdeck/internal/entities"
	"github.com/bookdeck/bookdeck/internal/metadata"
)

// BooksController handles the book catalog endpoints.
type BooksController struct {
	store  BookStore
	lookup VolumeLookup
}

// NewBooksController creates a new BooksController.
func NewBooksController(store BookStore, lookup VolumeLookup) *BooksController {
	return &BooksController{
		store:  store,
		lookup: lookup,
	}
}

// bookResponse is the wire shape of a book: author rows flattened to an
// ordered list of names.
type bookResponse struct {
	ISBN13        string   `json:"isbn13"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	ImageURL      string   `json:"imageUrl"`
	Authors       []string `json:"authors"`
}

func toBookResponse(book *entities.Book) bookResponse {
	return bookResponse{
		ISBN13:        book.ISBN13,
		Title:         book.Title,
		Description:   book.Description,
		Publisher:     book.Publisher,
		PublishedDate: book.PublishedDate,
		ImageURL:      book.ImageURL,
		Authors:       book.AuthorNames(),
	}
}

type createBookRequest struct {
	ISBN13 string `json:"isbn13" binding:"required,len=13,numeric"`
}

// ListBooks returns every registered book.
func (bc *BooksController) ListBooks(c *gin.Context) {
	list, err := bc.store.FindAll()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	resp := make([]bookResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toBookResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetBook returns one book by ISBN.
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.store.Find(c.Param("isbn13"))
	if err != nil {
		respondRepoError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

// CreateBook registers a book: the request carries only the ISBN, the rest
// is resolved from the metadata lookup. There is no existence pre-check;
// a duplicate surfaces from the repository's uniqueness constraint, which
// also settles concurrent registrations of the same ISBN.
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "isbn13 must be a 13-digit string")
		return
	}

	volume, err := bc.lookup.LookupISBN(c.Request.Context(), req.ISBN13)
	if err != nil {
		if errors.Is(err, metadata.ErrVolumeNotFound) {
			respondNotFound(c, "volume")
			return
		}
		respondInternalError(c, err, "metadata lookup")
		return
	}

	book := &entities.Book{
		ISBN13:        volume.ISBN13,
		Title:         volume.Title,
		Description:   volume.Description,
		Publisher:     volume.Publisher,
		PublishedDate: volume.PublishedDate,
		ImageURL:      volume.ImageURL,
	}

	created, err := bc.store.Create(book, volume.Authors)
	if err != nil {
		respondRepoError(c, err, "book")
		return
	}

	c.JSON(http.StatusCreated, toBookResponse(created))
}

// DeleteBook removes a book along with its authors and memos.
func (bc *BooksController) DeleteBook(c *gin.Context) {
	if err := bc.store.Delete(c.Param("isbn13")); err != nil {
		respondRepoError(c, err, "book")
		return
	}
	c.Status(http.StatusNoContent)
}
