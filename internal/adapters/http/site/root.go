// Package site serves the browser front end of the navigator.
package site

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Register attaches the embedded front end to mux at /. It must be
// registered last so that /api, /healthz and the docs keep their routes.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", newFrontEnd())
}

type frontEnd struct {
	files http.Handler
}

func newFrontEnd() *frontEnd {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return &frontEnd{files: http.FileServerFS(sub)}
}

// ServeHTTP serves the index page and its assets with caching disabled.
func (h *frontEnd) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	h.files.ServeHTTP(w, r)
}
