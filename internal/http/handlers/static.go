package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// StaticHandler serves the pre-built website from a directory. The chat API
// is unaffected when the directory is absent; the root path then answers
// with a health payload instead of the homepage.
type StaticHandler struct {
	dir     string
	version string
}

// NewStaticHandler creates a static asset handler rooted at dir.
func NewStaticHandler(dir, version string) *StaticHandler {
	return &StaticHandler{dir: dir, version: version}
}

// Index handles GET /, serving index.html when present.
func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err == nil {
		http.ServeFile(w, r, index)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC(),
	})
}

// Assets returns a handler serving a sub-directory of site assets, stripped
// of the URL prefix (e.g. /css/ -> <dir>/css).
func (h *StaticHandler) Assets(prefix string) http.Handler {
	root := filepath.Join(h.dir, filepath.Clean("/"+prefix))
	return http.StripPrefix("/"+prefix+"/", http.FileServer(http.Dir(root)))
}
