package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookdeck/bookdeck/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID = "auth_user_id"
	ContextKeyEmail  = "auth_email"
)

// Middleware gates requests on a live session. Every protected request
// re-resolves the session's user id against the backend and re-checks the
// auth hash, so a deleted account or changed password invalidates the
// session immediately rather than at expiry.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	publicPaths    map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	publicPaths := map[string]bool{
		"/health":         true,
		"/login":          true,
		"/create-account": true,
	}

	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		publicPaths:    publicPaths,
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.publicPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		user := m.resolveSessionUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyEmail, user.Email)
		c.Next()
	}
}

// resolveSessionUser revalidates the session-carried id against the backend.
// Returns nil when there is no session, the account is gone, or the auth
// hash no longer matches.
func (m *Middleware) resolveSessionUser(c *gin.Context) *entities.User {
	userID := m.sessionManager.GetUserID(c.Request)
	if userID == "" {
		return nil
	}

	user, err := m.service.GetUser(userID)
	if err != nil || user == nil {
		return nil
	}

	if !m.sessionManager.ValidateUser(c.Request, user) {
		return nil
	}

	return user
}

// GetUserID retrieves the authenticated user's id from the context.
// Returns "" if the request is unauthenticated.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}

// GetEmail retrieves the authenticated user's email from the context.
func GetEmail(c *gin.Context) string {
	if e, exists := c.Get(ContextKeyEmail); exists {
		if email, ok := e.(string); ok {
			return email
		}
	}
	return ""
}
