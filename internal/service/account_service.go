package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/repository"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/security"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/session"
)

const minPasswordLength = 6

// UserStore is the persistence port for user rows.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	ListByRole(ctx context.Context, role models.Role, emailQuery string, limit int) ([]models.User, error)
}

// Identity is what an authenticated caller looks like past the access
// control layer. The password hash never travels with it.
type Identity struct {
	ID    int64
	Email string
	Role  models.Role
}

type AccountService struct {
	users    UserStore
	sessions session.Manager
	log      zerolog.Logger
}

func NewAccountService(users UserStore, sessions session.Manager, log zerolog.Logger) *AccountService {
	return &AccountService{users: users, sessions: sessions, log: log}
}

// NormalizeEmail is applied to every email before it reaches the store, so
// case and whitespace variants of one address collapse to one row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) Register(ctx context.Context, email, password string, role models.Role) (Identity, error) {
	email = NormalizeEmail(email)

	if !role.Valid() {
		return Identity{}, ErrInvalidRole
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return Identity{}, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return Identity{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return Identity{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	// The unique constraint on users.email is the arbiter here: two
	// concurrent registrations with the same address yield exactly one row.
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return Identity{}, ErrDuplicateEmail
		}
		return Identity{}, storeError(err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	return Identity{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password collapse to one ErrInvalidCredentials so accounts cannot be
// enumerated.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", storeError(err)
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", storeError(err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")

	return token, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

func (s *AccountService) WhoAmI(ctx context.Context, token string) (Identity, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Identity{}, session.ErrUnauthenticated
		}
		return Identity{}, storeError(err)
	}

	return Identity{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// SearchPatients lists patients for the doctor-facing directory, optionally
// filtered by an email substring.
func (s *AccountService) SearchPatients(ctx context.Context, emailQuery string, limit int) ([]models.User, error) {
	return s.searchByRole(ctx, models.RolePatient, emailQuery, limit)
}

func (s *AccountService) SearchDoctors(ctx context.Context, emailQuery string, limit int) ([]models.User, error) {
	return s.searchByRole(ctx, models.RoleDoctor, emailQuery, limit)
}

func (s *AccountService) searchByRole(ctx context.Context, role models.Role, emailQuery string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	users, err := s.users.ListByRole(ctx, role, strings.TrimSpace(emailQuery), limit)
	if err != nil {
		return nil, storeError(err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}
