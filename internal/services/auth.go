package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadbase/apiserver/internal/store"
	"github.com/leadbase/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for every stored password hash.
const BcryptCost = 10

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHashFailure        = errors.New("password hashing failed")
	ErrMissingPassword    = errors.New("missing required fields")
)

// UserRepository defines persistence operations for credentials.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, username *string, passwordHash string) (types.User, error)
}

// AuthService encapsulates registration and credential checks.
type AuthService struct {
	repo UserRepository
	cost int
}

func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo, cost: BcryptCost}
}

// Register hashes the password and stores the new user. A nil password is
// rejected before hashing; a nil username is left for the store to reject.
func (s *AuthService) Register(ctx context.Context, username, password *string) (types.User, error) {
	if password == nil {
		return types.User{}, ErrMissingPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), s.cost)
	if err != nil {
		return types.User{}, fmt.Errorf("%w: %v", ErrHashFailure, err)
	}

	user, err := s.repo.Create(ctx, username, string(hashed))
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrDuplicateUsername
		}
		return types.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login looks the user up and verifies the password against the stored hash.
// No stored username is NULL, so a nil username never matches.
func (s *AuthService) Login(ctx context.Context, username, password *string) (types.User, error) {
	if username == nil {
		return types.User{}, ErrUserNotFound
	}

	user, err := s.repo.GetByUsername(ctx, *username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrUserNotFound
		}
		return types.User{}, fmt.Errorf("load user: %w", err)
	}

	if password == nil {
		return types.User{}, ErrMissingPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}
