package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/spantree/pkg/graph"
)

// handleListGraphs lists the library, or looks up one entry by ?name=.
func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		e, err := s.library.FindByName(r.Context(), name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
		return
	}
	list, err := s.library.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSaveGraph(w http.ResponseWriter, r *http.Request) {
	var data graph.GraphData
	if err := decodeJSON(w, r, &data); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.library.Save(r.Context(), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("graph saved", "id", e.ID, "name", e.Name)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	e, err := s.library.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handleExportGraph serves an entry as a downloadable GraphData file.
func (s *Server) handleExportGraph(w http.ResponseWriter, r *http.Request) {
	e, err := s.library.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", graph.Filename(e.Name)))
	writeJSON(w, http.StatusOK, e.GraphData)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
