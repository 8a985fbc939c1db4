//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Handler serves the assets from the source tree, so edits to app.css and app.js
// show up on the next request.
func Handler() http.Handler {
	dir := filepath.Join("internal", "ui", "resources", "static")
	if _, file, _, ok := runtime.Caller(0); ok {
		dir = filepath.Join(filepath.Dir(file), "static")
	}
	slog.Info("serving static assets from disk", "dir", dir)
	return serve(os.DirFS(dir), "no-cache")
}
