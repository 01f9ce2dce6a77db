// Package web embeds the HTML templates and static assets of the pages.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

func sub(dir string) fs.FS {
	f, err := fs.Sub(content, dir)
	if err != nil {
		// Only fails for an invalid path, which dir never is.
		panic("web: " + err.Error())
	}
	return f
}

// StaticFS returns the static file system (CSS, JavaScript).
func StaticFS() fs.FS { return sub("static") }

// TemplatesFS returns the templates file system.
func TemplatesFS() fs.FS { return sub("templates") }
