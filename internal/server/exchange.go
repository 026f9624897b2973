package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/exchange"
)

// maxImportBytes caps the size of an uploaded export document.
const maxImportBytes = 10 << 20

// export streams the collections as a download. ?project=<id> limits it to
// one project, ?format=txt picks the text transcript.
func (s *Server) export(c *gin.Context) {
	format, err := exchange.ParseFormat(c.DefaultQuery("format", string(exchange.FormatJSON)))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid export format", err)
		return
	}

	projectID := c.Query("project")
	if projectID == AllProjects {
		projectID = ""
	}
	snap, project, err := exchange.Select(s.app.Collection, projectID)
	if err != nil {
		failFor(c, "Failed to export", err)
		return
	}

	now := s.config.Now()
	var buf bytes.Buffer
	contentType := "application/json"
	if format == exchange.FormatText {
		contentType = "text/plain; charset=utf-8"
		err = exchange.WriteText(&buf, snap, project, now)
	} else {
		err = exchange.WriteJSON(&buf, snap)
	}
	if err != nil {
		failFor(c, "Failed to export", err)
		return
	}

	s.app.Notify(core.Notification{
		Level:   core.LevelSuccess,
		Message: exchange.Message(project, format),
		Time:    now,
	})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exchange.FileName(project, format, now)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// importDocument merges an exported document from the request body.
func (s *Server) importDocument(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	result, err := exchange.Import(c.Request.Context(), s.app.Collection, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "Import document too large", err)
			return
		}
		failFor(c, "Failed to import", err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("Imported %d projects and %d notes", result.Projects, result.Notes), result)
}
