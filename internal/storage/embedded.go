package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
)

// ErrReadOnly is returned by write operations on the embedded backend.
var ErrReadOnly = errors.New("embedded pages are read-only")

// Embedded serves pages compiled into the binary.
type Embedded struct {
	files fs.FS
}

func NewEmbedded(files fs.FS) *Embedded {
	return &Embedded{files: files}
}

func (e *Embedded) EnsureBucket(context.Context) error {
	return nil
}

func (e *Embedded) Put(context.Context, string, io.Reader, int64, string) error {
	return ErrReadOnly
}

func (e *Embedded) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := e.files.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (e *Embedded) Delete(context.Context, string) error {
	return ErrReadOnly
}

func (e *Embedded) Bucket() string {
	return "embedded"
}

func (e *Embedded) Close() error {
	return nil
}
