package server

import (
	"net/http"
	"time"

	"github.com/matzehuels/spantree/pkg/compare"
	"github.com/matzehuels/spantree/pkg/history"
	"github.com/matzehuels/spantree/pkg/mst"
)

type historyResponse struct {
	Limit      int                 `json:"limit"`
	Executions []history.Execution `json:"executions"`
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	entries := s.history.Entries()
	if entries == nil {
		entries = []history.Execution{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Limit: history.Limit, Executions: entries})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, _ *http.Request) {
	s.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// recordIfFinished logs run when this step completed it.
func (s *Server) recordIfFinished(wasCompleted bool, run mst.Run, nodes, edges int) {
	if wasCompleted || !run.Completed() {
		return
	}
	e := history.FromRun(run, nodes, edges, time.Now())
	s.history.Record(e)
	s.logger.Debug("run completed", "algorithm", e.Algorithm, "steps", e.Steps, "elapsed", e.Elapsed)
}

// recordSessionRuns logs every side of a comparison that completed between
// the two snapshots.
func (s *Server) recordSessionRuns(before, after compare.Snapshot, nodes, edges int) {
	for _, side := range compare.Sides {
		s.recordIfFinished(before.Side(side).Completed(), after.Side(side).Run, nodes, edges)
	}
}
