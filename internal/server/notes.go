package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/query"
)

// AllProjects selects every note in GET /api/notes?project=all.
const AllProjects = "all"

// listNotes runs the note query. Missing parameters fall back to the
// session's selection, search text and sort.
func (s *Server) listNotes(c *gin.Context) {
	coll := s.app.Collection

	params := query.Params{
		ProjectID: coll.CurrentProjectID(),
		Search:    coll.SearchQuery(),
		SortBy:    coll.SortBy(),
	}
	if project, ok := c.GetQuery("project"); ok {
		params.ProjectID = project
		if project == AllProjects {
			params.ProjectID = ""
		}
	}
	if q, ok := c.GetQuery("q"); ok {
		params.Search = q
	}
	if sort, ok := c.GetQuery("sort"); ok {
		params.SortBy = query.ParseSortBy(sort)
	}

	respond(c, http.StatusOK, "success", query.FilteredNotes(coll.Notes(), params))
}

func (s *Server) getNote(c *gin.Context) {
	note, err := s.app.Collection.Note(c.Param("id"))
	if err != nil {
		failFor(c, "Note not found", err)
		return
	}
	respond(c, http.StatusOK, "success", note)
}

func (s *Server) createNote(c *gin.Context) {
	var in core.NoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request parameters", err)
		return
	}

	note, err := s.app.Collection.CreateNote(c.Request.Context(), in)
	if err != nil {
		failFor(c, "Failed to create note", err)
		return
	}
	respond(c, http.StatusCreated, "Note created", note)
}

func (s *Server) updateNote(c *gin.Context) {
	var patch core.NotePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request parameters", err)
		return
	}

	note, applied, err := s.app.Collection.UpdateNote(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		failFor(c, "Failed to update note", err)
		return
	}
	if !applied {
		fail(c, http.StatusNotFound, "Note not found", nil)
		return
	}
	respond(c, http.StatusOK, "Note updated", note)
}

func (s *Server) deleteNote(c *gin.Context) {
	applied, err := s.app.Collection.DeleteNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFor(c, "Failed to delete note", err)
		return
	}
	if !applied {
		fail(c, http.StatusNotFound, "Note not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
