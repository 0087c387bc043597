package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicExcludesGatedPages(t *testing.T) {
	for _, name := range []string{"index.html", "form.html", "return.html"} {
		_, err := fs.Stat(Public(), name)
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"admin.html", "relatorios.html"} {
		_, err := fs.Stat(Public(), name)
		assert.ErrorIs(t, err, fs.ErrNotExist, name)

		_, err = fs.Stat(Pages(), name)
		assert.NoError(t, err, name)
	}
}
