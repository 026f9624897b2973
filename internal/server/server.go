// Package server exposes a CardForge session over a local JSON API, so a
// browser front end can drive the same collection as the CLI.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aretw0/cardforge/internal/platform"
)

const shutdownTimeout = 5 * time.Second

// Config holds the HTTP settings.
type Config struct {
	Addr        string
	CORSOrigins []string
	Logger      *slog.Logger
	// Now overrides the clock used for export file names.
	Now func() time.Time
}

// Server serves one App.
type Server struct {
	app    *platform.App
	config Config
	engine *gin.Engine
}

// New builds the router.
func New(app *platform.App, config Config) *Server {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(config.Logger))

	if len(config.CORSOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:  config.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}

	s := &Server{app: app, config: config, engine: engine}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		api.GET("/status", s.status)
		api.GET("/events", s.events)

		notes := api.Group("/notes")
		notes.GET("", s.listNotes)
		notes.POST("", s.createNote)
		notes.GET("/:id", s.getNote)
		notes.PATCH("/:id", s.updateNote)
		notes.DELETE("/:id", s.deleteNote)
		notes.POST("/:id/summary", s.summarizeNote)

		projects := api.Group("/projects")
		projects.GET("", s.listProjects)
		projects.POST("", s.createProject)
		projects.DELETE("/:id", s.deleteProject)

		api.GET("/selection", s.getSelection)
		api.PUT("/selection", s.setSelection)

		api.GET("/prefs", s.getPrefs)
		api.PUT("/prefs", s.setPrefs)
		api.POST("/prefs/view-mode/toggle", s.toggleViewMode)

		api.GET("/export", s.export)
		api.POST("/import", s.importDocument)
		api.POST("/summarize", s.summarize)
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
