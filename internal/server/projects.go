package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/cardforge/pkg/core"
)

func (s *Server) listProjects(c *gin.Context) {
	respond(c, http.StatusOK, "success", s.app.Collection.Projects())
}

func (s *Server) createProject(c *gin.Context) {
	var in core.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request parameters", err)
		return
	}

	project, err := s.app.Collection.CreateProject(c.Request.Context(), in)
	if err != nil {
		failFor(c, "Failed to create project", err)
		return
	}
	respond(c, http.StatusCreated, "Project created", project)
}

func (s *Server) deleteProject(c *gin.Context) {
	applied, err := s.app.Collection.DeleteProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFor(c, "Failed to delete project", err)
		return
	}
	if !applied {
		fail(c, http.StatusNotFound, "Project not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

type selection struct {
	// ProjectID is empty for All Notes.
	ProjectID string `json:"project_id"`
}

func (s *Server) getSelection(c *gin.Context) {
	respond(c, http.StatusOK, "success", selection{ProjectID: s.app.Collection.CurrentProjectID()})
}

func (s *Server) setSelection(c *gin.Context) {
	var req selection
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request parameters", err)
		return
	}
	if err := s.app.Collection.SetCurrentProjectID(c.Request.Context(), req.ProjectID); err != nil {
		failFor(c, "Failed to select project", err)
		return
	}
	respond(c, http.StatusOK, "Selection updated", req)
}
