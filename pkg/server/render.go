package server

import (
	"net/http"
	"strconv"

	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/layout"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/pipeline"
	"github.com/matzehuels/spantree/pkg/render"
)

type renderRequest struct {
	Nodes       []graph.Node    `json:"nodes"`
	Edges       []graph.Edge    `json:"edges"`
	Algorithm   string          `json:"algorithm,omitempty"`
	Layout      string          `json:"layout,omitempty"`
	Canvas      *layout.Options `json:"canvas,omitempty"`
	Step        int             `json:"step,omitempty"`
	Format      string          `json:"format,omitempty"`
	Title       string          `json:"title,omitempty"`
	HideWeights bool            `json:"hideWeights,omitempty"`
}

var contentTypes = map[render.Format]string{
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
	render.FormatPDF: "application/pdf",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	gr := graphRequest{req.Nodes, req.Edges}
	if err := gr.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	format := render.FormatSVG
	if req.Format != "" {
		f, err := render.ParseFormat(req.Format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = f
	}

	opts := pipeline.Options{
		Algorithm:   mst.Algorithm(req.Algorithm),
		Layout:      layout.Type(req.Layout),
		Formats:     []render.Format{format},
		Step:        req.Step,
		Title:       req.Title,
		HideWeights: req.HideWeights,
	}
	if req.Canvas != nil {
		opts.Canvas = *req.Canvas
	}
	res, err := s.runner.Execute(r.Context(), graph.FromParts(req.Nodes, req.Edges), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Spantree-Step", strconv.Itoa(res.Rendered.StepCount()))
	w.Header().Set("X-Spantree-Cost", strconv.Itoa(res.Rendered.TotalCost()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[string(format)])
}
