package storage

import (
	"bytes"
	"context"
	"io"
	"testing"
	"testing/fstest"

	"github.com/leadbase/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	data        []byte
	contentType string
}

type memoryBackend struct {
	objects map[string]object
	ensured bool
	closed  bool
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{objects: map[string]object{}}
}

func (m *memoryBackend) EnsureBucket(context.Context) error {
	m.ensured = true
	return nil
}

func (m *memoryBackend) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = object{data: data, contentType: contentType}
	return nil
}

func (m *memoryBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *memoryBackend) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryBackend) Bucket() string {
	return "memory"
}

func (m *memoryBackend) Close() error {
	m.closed = true
	return nil
}

var pages = fstest.MapFS{
	"admin.html":      {Data: []byte("<h1>admin</h1>")},
	"relatorios.html": {Data: []byte("<h1>reports</h1>")},
}

func TestEmbedded_Page(t *testing.T) {
	s := NewStorage(NewEmbedded(pages), "")
	ctx := context.Background()

	data, err := s.Page(ctx, "admin.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>admin</h1>", string(data))

	data, err = s.Page(ctx, "/relatorios.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>reports</h1>", string(data))

	_, err = s.Page(ctx, "missing.html")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Page(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "embedded", s.Bucket())
}

func TestEmbedded_ReadOnly(t *testing.T) {
	s := NewStorage(NewEmbedded(pages), "")

	assert.ErrorIs(t, s.Delete(context.Background(), "admin.html"), ErrReadOnly)
	_, err := s.Publish(context.Background(), pages)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestStorage_PublishUsesPrefix(t *testing.T) {
	backend := newMemoryBackend()
	s := NewStorage(backend, "pages/")
	ctx := context.Background()

	keys, err := s.Publish(ctx, pages)
	require.NoError(t, err)
	assert.True(t, backend.ensured)
	assert.ElementsMatch(t, []string{"pages/admin.html", "pages/relatorios.html"}, keys)
	assert.Contains(t, backend.objects["pages/admin.html"].contentType, "text/html")

	data, err := s.Page(ctx, "admin.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>admin</h1>", string(data))

	require.NoError(t, s.Delete(ctx, "admin.html"))
	_, err = s.Page(ctx, "admin.html")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.PagesConfig{Backend: "embedded"}, pages)
	require.NoError(t, err)
	assert.Equal(t, "embedded", s.Bucket())

	_, err = Open(ctx, config.PagesConfig{Backend: "ftp"}, pages)
	assert.Error(t, err)

	_, err = Open(ctx, config.PagesConfig{Backend: "minio"}, pages)
	assert.ErrorContains(t, err, "minio endpoint is required")

	_, err = Open(ctx, config.PagesConfig{Backend: "gcs"}, pages)
	assert.ErrorContains(t, err, "gcs bucket is required")
}

func TestStorage_UnpublishAndClose(t *testing.T) {
	backend := newMemoryBackend()
	s := NewStorage(backend, "pages/")
	ctx := context.Background()

	_, err := s.Publish(ctx, pages)
	require.NoError(t, err)
	require.Len(t, backend.objects, 2)

	keys, err := s.Unpublish(ctx, pages)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pages/admin.html", "pages/relatorios.html"}, keys)
	assert.Empty(t, backend.objects)

	_, err = s.Page(ctx, "admin.html")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Close())
	assert.True(t, backend.closed)
}

func TestEmbedded_UnpublishIsReadOnly(t *testing.T) {
	s := NewStorage(NewEmbedded(pages), "")

	_, err := s.Unpublish(context.Background(), pages)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.NoError(t, s.Close())
}
