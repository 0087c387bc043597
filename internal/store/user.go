package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/leadbase/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	query := r.db.Rebind(`
		SELECT id, username, password
		FROM users
		WHERE username = ?`)
	var user types.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// Create inserts a user and returns it with its assigned ID. A nil username
// is bound as NULL and rejected by the NOT NULL constraint.
// ErrDuplicate is returned when the username is already taken.
func (r *UserRepository) Create(ctx context.Context, username *string, passwordHash string) (types.User, error) {
	query := r.db.Rebind(`
		INSERT INTO users (username, password)
		VALUES (?, ?)
		RETURNING id`)
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, username, passwordHash).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return types.User{}, ErrDuplicate
		}
		return types.User{}, err
	}

	user := types.User{ID: id, PasswordHash: passwordHash}
	if username != nil {
		user.Username = *username
	}
	return user, nil
}
