// Package resources serves the stylesheet and client script of the web UI.
package resources

import (
	"io/fs"
	"net/http"
)

const prefix = "/static/"

// StaticPath returns the URL path for a static asset.
func StaticPath(name string) string {
	return prefix + name
}

// serve exposes fsys under the static prefix with the given Cache-Control value.
func serve(fsys fs.FS, cacheControl string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.FS(fsys)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheControl)
		files.ServeHTTP(w, r)
	})
}
