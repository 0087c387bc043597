// Package storage reads the session-gated HTML pages from an object store.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path"
	"strings"

	"github.com/leadbase/apiserver/config"
)

// ErrNotFound is returned when a page does not exist in the backend.
var ErrNotFound = errors.New("page not found")

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
	Close() error
}

// Storage resolves page names to object keys under a prefix.
type Storage struct {
	backend ObjectStorage
	prefix  string
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage, prefix string) *Storage {
	return &Storage{backend: backend, prefix: prefix}
}

// Open builds the page backend selected by cfg.Backend. pages backs the
// embedded backend and is ignored otherwise.
func Open(ctx context.Context, cfg config.PagesConfig, pages fs.FS) (*Storage, error) {
	switch cfg.Backend {
	case "", "embedded":
		return NewStorage(NewEmbedded(pages), ""), nil
	case "minio":
		client, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, fmt.Errorf("connect minio: %w", err)
		}
		return NewStorage(client, cfg.Prefix), nil
	case "gcs":
		client, err := NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, fmt.Errorf("connect gcs: %w", err)
		}
		return NewStorage(client, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported pages backend %q", cfg.Backend)
	}
}

// Page returns the full contents of the named page.
func (s *Storage) Page(ctx context.Context, name string) ([]byte, error) {
	r, err := s.backend.Get(ctx, s.key(name))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Publish uploads every file of pages to the backend under the prefix and
// returns the keys written.
func (s *Storage) Publish(ctx context.Context, pages fs.FS) ([]string, error) {
	if err := s.backend.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	var keys []string
	err := fs.WalkDir(pages, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(pages, name)
		if err != nil {
			return err
		}
		key := s.key(name)
		contentType := mime.TypeByExtension(path.Ext(name))
		if err := s.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return keys, err
	}
	return keys, nil
}

// Unpublish removes every file of pages from the backend and returns the
// keys deleted.
func (s *Storage) Unpublish(ctx context.Context, pages fs.FS) ([]string, error) {
	var keys []string
	err := fs.WalkDir(pages, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if err := s.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete %s: %w", s.key(name), err)
		}
		keys = append(keys, s.key(name))
		return nil
	})
	return keys, err
}

// Delete removes the named page.
func (s *Storage) Delete(ctx context.Context, name string) error {
	return s.backend.Delete(ctx, s.key(name))
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

// Close releases the backend client.
func (s *Storage) Close() error {
	return s.backend.Close()
}

func (s *Storage) key(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}
