// Package web serves the intake form page and its static assets. The assets
// are embedded so the binary is self-contained; there is no dynamic behavior
// beyond content types.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/wolfman30/ai-intake/pkg/logging"
)

//go:embed static
var staticFS embed.FS

// Handler serves the intake form.
type Handler struct {
	index  []byte
	assets http.Handler
	logger *logging.Logger
}

// NewHandler loads the embedded form assets.
func NewHandler(logger *logging.Logger) (*Handler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	index, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	return &Handler{
		index:  index,
		assets: http.StripPrefix("/static/", http.FileServer(http.FS(sub))),
		logger: logger,
	}, nil
}

// Index serves the intake form page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.index)
}

// Assets serves GET /static/* (JS and CSS for the form).
func (h *Handler) Assets(w http.ResponseWriter, r *http.Request) {
	h.assets.ServeHTTP(w, r)
}
