package server

import (
	"net/http"
	"strconv"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/layout"
	"github.com/matzehuels/spantree/pkg/mst"
)

// =============================================================================
// Requests
// =============================================================================

type graphRequest struct {
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

func (g graphRequest) validate() error {
	if len(g.Nodes) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidGraph, "graph has no nodes")
	}
	return graph.Validate(g.Nodes, g.Edges)
}

type kruskalStepRequest struct {
	State *mst.KruskalState `json:"state"`
	Nodes []graph.Node      `json:"nodes"`
}

type primStepRequest struct {
	State *mst.PrimState `json:"state"`
	Nodes []graph.Node   `json:"nodes"`
	Edges []graph.Edge   `json:"edges"`
}

type primProjectRequest struct {
	State *mst.PrimState `json:"state"`
	Edges []graph.Edge   `json:"edges"`
}

type layoutRequest struct {
	Nodes   []graph.Node    `json:"nodes"`
	Edges   []graph.Edge    `json:"edges"`
	Type    string          `json:"type"`
	Options *layout.Options `json:"options,omitempty"`
}

type statsRequest struct {
	Nodes     []graph.Node `json:"nodes"`
	Edges     []graph.Edge `json:"edges"`
	Algorithm string       `json:"algorithm,omitempty"`
}

type statsResponse struct {
	graph.Stats
	Algorithm  mst.Algorithm    `json:"algorithm"`
	Complexity []mst.Complexity `json:"complexity"`
}

func missingState() error {
	return apperrors.New(apperrors.ErrCodeInvalidInput, "state is required")
}

// checkKruskalState rejects client states the engine cannot resume from.
func checkKruskalState(st *mst.KruskalState) error {
	switch {
	case st == nil:
		return missingState()
	case st.TotalSteps != len(st.SortedEdges):
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"state.total_steps is %d but state.sorted_edges has %d edges", st.TotalSteps, len(st.SortedEdges))
	case st.Step < 0 || st.Step > st.TotalSteps:
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"state.step %d is outside [0, %d]", st.Step, st.TotalSteps)
	}
	return nil
}

// checkPrimState rejects client states that break the tree bookkeeping.
// A completed state is passed through as the engine returns it unchanged.
func checkPrimState(st *mst.PrimState) error {
	switch {
	case st == nil:
		return missingState()
	case st.Completed:
		return nil
	case st.Step < 0 || st.Step > st.TotalSteps:
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"state.step %d is outside [0, %d]", st.Step, st.TotalSteps)
	case len(st.VisitedNodes) == 0:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "state.visited_nodes is empty")
	case len(st.VisitedNodes) != len(st.MSTEdges)+1:
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"state has %d visited nodes for %d tree edges", len(st.VisitedNodes), len(st.MSTEdges))
	}
	return nil
}

// =============================================================================
// Engine Handlers
// =============================================================================

func (s *Server) handleKruskalInit(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mst.InitKruskal(req.Nodes, req.Edges))
}

func (s *Server) handleKruskalStep(w http.ResponseWriter, r *http.Request) {
	var req kruskalStepRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkKruskalState(req.State); err != nil {
		s.writeError(w, r, err)
		return
	}
	next := mst.StepKruskal(*req.State, req.Nodes)
	s.recordIfFinished(req.State.Completed, mst.Run{Kind: mst.Kruskal, Kruskal: &next}, len(req.Nodes), len(next.SortedEdges))
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handlePrimInit(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mst.InitPrim(req.Nodes, req.Edges))
}

func (s *Server) handlePrimStep(w http.ResponseWriter, r *http.Request) {
	var req primStepRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkPrimState(req.State); err != nil {
		s.writeError(w, r, err)
		return
	}
	next := mst.StepPrim(*req.State, req.Nodes, req.Edges)
	s.recordIfFinished(req.State.Completed, mst.Run{Kind: mst.Prim, Prim: &next}, len(req.Nodes), len(req.Edges))
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handlePrimProject(w http.ResponseWriter, r *http.Request) {
	var req primProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.State == nil {
		s.writeError(w, r, missingState())
		return
	}
	writeJSON(w, http.StatusOK, mst.ProjectPrimEdges(*req.State, req.Edges))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := layout.ParseType(req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := (graphRequest{req.Nodes, req.Edges}).validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := layout.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "canvas must be positive"))
		return
	}
	nodes, err := layout.Apply(req.Nodes, req.Edges, t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := (graphRequest{req.Nodes, req.Edges}).validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	alg := mst.Kruskal
	if req.Algorithm != "" {
		parsed, err := mst.ParseAlgorithm(req.Algorithm)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		alg = parsed
	}

	trace, err := mst.Solve(alg, req.Nodes, req.Edges)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	final := trace[len(trace)-1]
	resp := statsResponse{
		Stats:     graph.ComputeStats(req.Nodes, req.Edges, final.MSTEdges(), final.TotalCost()),
		Algorithm: alg,
	}
	for _, a := range mst.Algorithms {
		resp.Complexity = append(resp.Complexity, mst.EstimateComplexity(a, len(req.Nodes), len(req.Edges)))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleComplexity(w http.ResponseWriter, r *http.Request) {
	nodes, err1 := strconv.Atoi(r.URL.Query().Get("nodes"))
	edges, err2 := strconv.Atoi(r.URL.Query().Get("edges"))
	if err1 != nil || err2 != nil || nodes < 0 || edges < 0 {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "nodes and edges must be non-negative integers"))
		return
	}
	out := make([]mst.Complexity, 0, len(mst.Algorithms))
	for _, a := range mst.Algorithms {
		out = append(out, mst.EstimateComplexity(a, nodes, edges))
	}
	writeJSON(w, http.StatusOK, out)
}
