package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/cardforge/pkg/prefs"
)

type prefsRequest struct {
	Theme    string `json:"theme" binding:"omitempty,oneof=system light dark"`
	ViewMode string `json:"view_mode" binding:"omitempty,oneof=grid list"`
}

func (s *Server) getPrefs(c *gin.Context) {
	respond(c, http.StatusOK, "success", s.app.Prefs.Load(c.Request.Context()))
}

func (s *Server) setPrefs(c *gin.Context) {
	var req prefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request parameters", err)
		return
	}

	ctx := c.Request.Context()
	if req.Theme != "" {
		theme, err := prefs.ParseTheme(req.Theme)
		if err == nil {
			err = s.app.Prefs.SetTheme(ctx, theme)
		}
		if err != nil {
			failFor(c, "Failed to save theme", err)
			return
		}
	}
	if req.ViewMode != "" {
		mode, err := prefs.ParseViewMode(req.ViewMode)
		if err == nil {
			err = s.app.Prefs.SetViewMode(ctx, mode)
		}
		if err != nil {
			failFor(c, "Failed to save view mode", err)
			return
		}
	}
	respond(c, http.StatusOK, "Preferences saved", s.app.Prefs.Load(ctx))
}

func (s *Server) toggleViewMode(c *gin.Context) {
	mode, err := s.app.Prefs.ToggleViewMode(c.Request.Context())
	if err != nil {
		failFor(c, "Failed to save view mode", err)
		return
	}
	respond(c, http.StatusOK, "View mode toggled", gin.H{"view_mode": mode})
}
