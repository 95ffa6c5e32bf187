// Package site serves the embedded projector page.
package site

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Error constants
var (
	ErrNilRouter = errors.New("site: nil router")
)

// Register mounts the projector page at / and its assets under /static/.
func Register(r chi.Router) error {
	if r == nil {
		return ErrNilRouter
	}
	files := http.FileServer(FS())
	r.Get("/", files.ServeHTTP)
	r.Get("/static/*", http.StripPrefix("/static", files).ServeHTTP)
	return nil
}
