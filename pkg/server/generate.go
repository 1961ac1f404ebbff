package server

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
	"github.com/matzehuels/spantree/pkg/generate"
	"github.com/matzehuels/spantree/pkg/graph"
)

// maxRandomNodes bounds POST /generate.
const maxRandomNodes = 200

type generateRequest struct {
	Nodes int    `json:"nodes"`
	Seed  *int64 `json:"seed,omitempty"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if c := r.URL.Query().Get("category"); c != "" {
		writeJSON(w, http.StatusOK, generate.TemplatesIn(generate.Category(c)))
		return
	}
	writeJSON(w, http.StatusOK, generate.Templates())
}

func (s *Server) handleBuildTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := generate.LookupTemplate(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seed, err := seedParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g := t.Build(rand.New(rand.NewSource(seed)))
	writeJSON(w, http.StatusOK, graph.Export(g, t.Name, t.Description, time.Now()))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Nodes == 0 {
		req.Nodes = generate.DefaultRandomNodes
	}
	if req.Nodes < 1 || req.Nodes > maxRandomNodes {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "nodes must be between 1 and %d", maxRandomNodes))
		return
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	g := generate.Random(req.Nodes, rand.New(rand.NewSource(seed)))
	writeJSON(w, http.StatusOK, graph.Export(g, "Random Graph", "Randomly generated connected graph", time.Now()))
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, generate.Scenarios())
}

// seedParam reads ?seed=, defaulting to the current time.
func seedParam(r *http.Request) (int64, error) {
	v := r.URL.Query().Get("seed")
	if v == "" {
		return time.Now().UnixNano(), nil
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "seed must be an integer")
	}
	return seed, nil
}
