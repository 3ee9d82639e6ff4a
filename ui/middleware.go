package ui

import (
	"fmt"
	"io/fs"
	"net/http"
)

// setupMiddleware serves the embedded static assets under /static
func (s *Server) setupMiddleware() error {
	staticFS, err := fs.Sub(s.files, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.logger.Debug("serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}
