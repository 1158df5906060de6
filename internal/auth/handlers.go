package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller handles authentication-related HTTP endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type accountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CreateAccount registers a new account and logs it in, mirroring the usual
// register-then-login flow. Whether the email was already taken is not
// spelled out in the response.
func (ac *Controller) CreateAccount(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := ac.service.CreateAccount(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailInvalid), errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrEmailRegistered):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to create account"})
		default:
			log.Printf("create account failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("session creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, accountResponse{ID: user.ID, Email: user.Email})
}

// Login authenticates credentials and opens a session. Unknown account and
// wrong password produce the same response, so the endpoint cannot be used
// to enumerate accounts.
func (ac *Controller) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := ac.service.Authenticate(req.Email, req.Password)
	if err != nil {
		log.Printf("authentication failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("session creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, accountResponse{ID: user.ID, Email: user.Email})
}

// Logout destroys the current session.
func (ac *Controller) Logout(c *gin.Context) {
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.Printf("logout failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GetAccount returns the authenticated account. The auth middleware has
// already resolved and revalidated the session.
func (ac *Controller) GetAccount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, accountResponse{ID: userID, Email: GetEmail(c)})
}

// DeleteAccount removes the account and its session. Any other sessions for
// the account die on their next revalidation.
func (ac *Controller) DeleteAccount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.Printf("session destroy failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := ac.service.DeleteAccount(userID); err != nil {
		log.Printf("account deletion failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
