package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/bookdeck/bookdeck/internal/config"
	"github.com/bookdeck/bookdeck/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID   = "user_id"
	SessionKeyAuthHash = "auth_hash"
)

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by SQLite,
// so sessions survive restarts. The sqlDB parameter should be the underlying
// *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// SessionAuthHash derives the tamper/invalidation value for a user from the
// stored password hash. A password change produces a new value, which kills
// every session issued before the change.
func SessionAuthHash(user *entities.User) string {
	sum := sha256.Sum256([]byte(user.PasswordHash))
	return hex.EncodeToString(sum[:])
}

// CreateSession logs a user in. The token is renewed to prevent session
// fixation.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), SessionKeyUserID, user.ID)
	sm.Put(r.Context(), SessionKeyAuthHash, SessionAuthHash(user))
	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID retrieves the user id from the session.
// Returns "" if not authenticated.
func (sm *SessionManager) GetUserID(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyUserID)
}

// ValidateUser checks that a resolved user still matches the auth hash the
// session was issued with. The comparison is constant-time.
func (sm *SessionManager) ValidateUser(r *http.Request, user *entities.User) bool {
	stored := sm.GetString(r.Context(), SessionKeyAuthHash)
	if stored == "" {
		return false
	}
	current := SessionAuthHash(user)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(current)) == 1
}
