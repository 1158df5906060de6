package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookdeck/bookdeck/internal/config"
	"github.com/bookdeck/bookdeck/internal/database"
	"github.com/bookdeck/bookdeck/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("invalid email format")
	ErrPasswordRequired = errors.New("password is required")
	ErrEmailRegistered  = errors.New("email is already registered")
)

// Service is the authentication backend: it owns the users table, verifies
// credentials and resolves session identities.
//
// Absence is not an error here: FindAccount, Authenticate and GetUser return
// (nil, nil) for "no such account" / "no match" so callers can tell a failed
// lookup apart from a broken backend.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// FindAccount looks a user up by email. Returns (nil, nil) when no account
// exists for that address.
func (s *Service) FindAccount(email string) (*entities.User, error) {
	var user entities.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &user, nil
}

// CreateAccount registers a new user. The password is stored only as a
// bcrypt hash; a duplicate email surfaces as ErrEmailRegistered from the
// uniqueness constraint.
func (s *Service) CreateAccount(email, password string) (*entities.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.db.Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailRegistered
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials. Returns the user on a match, (nil, nil)
// when the account is missing or the password is wrong, and an error only
// when the lookup itself fails. Unknown account and wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	user, err := s.FindAccount(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, nil
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}
	return user, nil
}

// GetUser resolves a user by id for session revalidation. Returns (nil, nil)
// when the account no longer exists, which the session layer must treat as
// "session invalid".
func (s *Service) GetUser(id string) (*entities.User, error) {
	var user entities.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// DeleteAccount removes the user row. Existing sessions for the account die
// on their next revalidation.
func (s *Service) DeleteAccount(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&entities.User{}).Error; err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
