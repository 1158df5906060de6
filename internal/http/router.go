package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookdeck/bookdeck/internal/auth"
)

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	Books          *BooksController
	Memos          *MemosController
	Auth           *auth.Controller
	Health         *HealthController
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool
	CORSOrigin     string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.CORSOrigin != "" {
		router.Use(corsMiddleware(cfg.CORSOrigin))
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.Handler())

	router.GET("/health", cfg.Health.Status)

	router.POST("/create-account", cfg.Auth.CreateAccount)
	router.POST("/login", cfg.Auth.Login)
	router.GET("/logout", cfg.Auth.Logout)
	router.GET("/account", cfg.Auth.GetAccount)
	router.DELETE("/account", cfg.Auth.DeleteAccount)

	router.GET("/books", cfg.Books.ListBooks)
	router.POST("/books", cfg.Books.CreateBook)
	router.GET("/books/:isbn13", cfg.Books.GetBook)
	router.DELETE("/books/:isbn13", cfg.Books.DeleteBook)

	router.GET("/books/:isbn13/memos", cfg.Memos.ListMemos)
	router.POST("/books/:isbn13/memos", cfg.Memos.CreateMemo)
	router.GET("/memos/:id", cfg.Memos.GetMemo)
	router.DELETE("/memos/:id", cfg.Memos.DeleteMemo)

	return router
}

// corsMiddleware allows the configured frontend origin to use the API with
// credentials (session cookies).
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE")
		c.Header("Access-Control-Allow-Headers", "Authorization, Accept, Content-Type, "+auth.CSRFTokenHeader)
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
