package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MemosController handles the memo endpoints.
type MemosController struct {
	store MemoStore
}

// NewMemosController creates a new MemosController.
func NewMemosController(store MemoStore) *MemosController {
	return &MemosController{store: store}
}

type createMemoRequest struct {
	Text string `json:"text" binding:"required"`
}

// ListMemos returns the memos attached to a book. A book with no memos (or
// an unknown ISBN) yields an empty list.
func (mc *MemosController) ListMemos(c *gin.Context) {
	list, err := mc.store.FindAll(c.Param("isbn13"))
	if err != nil {
		respondInternalError(c, err, "list memos")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetMemo returns one memo by id.
func (mc *MemosController) GetMemo(c *gin.Context) {
	memo, err := mc.store.Find(c.Param("id"))
	if err != nil {
		respondRepoError(c, err, "memo")
		return
	}
	c.JSON(http.StatusOK, memo)
}

// CreateMemo attaches a memo to a book. A missing book is a 404; the
// repository guarantees no memo row is left behind in that case.
func (mc *MemosController) CreateMemo(c *gin.Context) {
	var req createMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "text is required")
		return
	}

	memo, err := mc.store.Create(req.Text, c.Param("isbn13"))
	if err != nil {
		respondRepoError(c, err, "book")
		return
	}

	c.JSON(http.StatusCreated, memo)
}

// DeleteMemo removes a memo by id.
func (mc *MemosController) DeleteMemo(c *gin.Context) {
	if err := mc.store.Delete(c.Param("id")); err != nil {
		respondRepoError(c, err, "memo")
		return
	}
	c.Status(http.StatusNoContent)
}
