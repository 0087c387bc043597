// Package web embeds the HTML served by the API server.
package web

import (
	"embed"
	"io/fs"
)

//go:embed public
var public embed.FS

//go:embed pages
var pages embed.FS

// Public returns the assets served without a session.
func Public() fs.FS {
	return mustSub(public, "public")
}

// Pages returns the pages that require an authenticated session.
func Pages() fs.FS {
	return mustSub(pages, "pages")
}

func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
