package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Data is the server-side state held for a session.
type Data struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

// Store persists session data by ID.
type Store interface {
	Get(ctx context.Context, id string) (Data, error)
	Set(ctx context.Context, id string, data Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Close() error
}
