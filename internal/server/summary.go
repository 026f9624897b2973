package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type summarizeRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request parameters", err)
		return
	}
	s.writeSummary(c, req.Text)
}

func (s *Server) summarizeNote(c *gin.Context) {
	note, err := s.app.Collection.Note(c.Param("id"))
	if err != nil {
		failFor(c, "Note not found", err)
		return
	}
	s.writeSummary(c, note.Content)
}

func (s *Server) writeSummary(c *gin.Context, text string) {
	out, err := s.app.Summarizer.Summarize(c.Request.Context(), text)
	if err != nil {
		failFor(c, "Failed to summarize", err)
		return
	}
	respond(c, http.StatusOK, "success", gin.H{"summary": out})
}
