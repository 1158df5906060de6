package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookdeck/bookdeck/internal/database"
)

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response. The cause is logged but never exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondRepoError maps a repository error to the client-visible outcome:
// NotFound -> 404, Registered -> 400, anything else -> opaque 500.
func respondRepoError(c *gin.Context, err error, resource string) {
	switch {
	case database.IsNotFound(err):
		respondNotFound(c, resource)
	case database.IsRegistered(err):
		respondBadRequest(c, resource+" is already registered")
	default:
		respondInternalError(c, err, resource)
	}
}
