package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"studentrisk/app"
	"studentrisk/internal"
)

// Page text
const (
	PageTitle    = "🎓 Student's Real Time Performance Insights Dashboard"
	BrowserTitle = "🎓 Student Risk Dashboard"
)

// ServerConfig holds dashboard server settings
type ServerConfig struct {
	GinMode           string
	RenderConcurrency int64
}

// Server serves the dashboard pages
type Server struct {
	router    *gin.Engine
	files     fs.FS
	templates *template.Template
	session   *app.Session
	renderSem *semaphore.Weighted
	logger    *internal.Logger
}

// NewServer creates the dashboard server. files must hold templates/ and static/.
func NewServer(files fs.FS, cfg ServerConfig) *Server {
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	}
	concurrency := cfg.RenderConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Server{
		router:    gin.Default(),
		files:     files,
		renderSem: semaphore.NewWeighted(concurrency),
		logger:    internal.DefaultLogger.With("Dashboard"),
	}
}

// Initialize parses templates and wires routes against sess
func (s *Server) Initialize(sess *app.Session) error {
	if sess == nil {
		return fmt.Errorf("dashboard needs a session")
	}
	s.session = sess

	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(s.files, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates
	s.logger.Debug("parsed templates: %s", templates.DefinedTemplates())

	if err := s.setupMiddleware(); err != nil {
		return err
	}
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/api/report", s.handleReport)
	s.router.GET("/api/session", s.handleSession)
	s.router.GET("/api/profile", s.handleProfile)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting dashboard on http://%s", addr)
	return s.router.Run(addr)
}
