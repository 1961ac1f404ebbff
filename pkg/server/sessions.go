package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/spantree/pkg/compare"
	apperrors "github.com/matzehuels/spantree/pkg/errors"
	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/session"
)

// =============================================================================
// Requests and Views
// =============================================================================

type createSessionRequest struct {
	Nodes      []graph.Node `json:"nodes"`
	Edges      []graph.Edge `json:"edges"`
	Left       string       `json:"left,omitempty"`
	Right      string       `json:"right,omitempty"`
	Mode       string       `json:"mode,omitempty"`
	TTLSeconds int          `json:"ttlSeconds,omitempty"`
}

type updateSessionRequest struct {
	Mode  string `json:"mode,omitempty"`
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
}

// sideView is one side of a session with its edges projected for display.
type sideView struct {
	compare.Instance
	Completed bool         `json:"completed"`
	Progress  float64      `json:"progress"`
	Edges     []graph.Edge `json:"edges"`
}

type sessionView struct {
	ID        string          `json:"id"`
	Mode      compare.Mode    `json:"mode"`
	Left      sideView        `json:"left"`
	Right     sideView        `json:"right"`
	Advanced  []compare.Side  `json:"advanced,omitempty"`
	Result    *compare.Result `json:"result,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

func viewOf(sess *session.Session, advanced []compare.Side) sessionView {
	snap := sess.Comparison
	side := func(inst compare.Instance) sideView {
		return sideView{
			Instance:  inst,
			Completed: inst.Completed(),
			Progress:  inst.Progress(len(sess.Nodes)),
			Edges:     inst.Run.Edges(sess.Edges),
		}
	}
	v := sessionView{
		ID:        sess.ID,
		Mode:      snap.Mode,
		Left:      side(snap.Left),
		Right:     side(snap.Right),
		Advanced:  advanced,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	}
	if res, ok := snap.Result(); ok {
		v.Result = &res
	}
	return v
}

// sideParam reads ?side=. An empty value means both sides.
func sideParam(r *http.Request) (compare.Side, error) {
	switch v := compare.Side(r.URL.Query().Get("side")); v {
	case "", compare.Left, compare.Right:
		return v, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "side must be left or right, got %q", v)
	}
}

func parseAlgorithmOr(s string, def mst.Algorithm) (mst.Algorithm, error) {
	if s == "" {
		return def, nil
	}
	return mst.ParseAlgorithm(s)
}

// =============================================================================
// Session Handlers
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := (graphRequest{req.Nodes, req.Edges}).validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	left, err := parseAlgorithmOr(req.Left, mst.Kruskal)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	right, err := parseAlgorithmOr(req.Right, mst.Prim)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := compare.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid mode"))
		return
	}
	ttl := s.sessionTTL
	if req.TTLSeconds > 0 {
		ttl = time.Duration(req.TTLSeconds) * time.Second
	}

	sess, err := session.New(req.Nodes, graph.ResetStatus(req.Edges), left, right, mode, ttl)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID, "left", left, "right", right, "mode", mode)
	writeJSON(w, http.StatusCreated, viewOf(sess, nil))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, nil))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutateSession(w, r, func(_ context.Context, c *compare.Comparison) ([]compare.Side, error) {
		if req.Mode != "" {
			mode, err := compare.ParseMode(req.Mode)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid mode")
			}
			if err := c.SetMode(mode); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "cannot change mode")
			}
		}
		names := map[compare.Side]string{compare.Left: req.Left, compare.Right: req.Right}
		for _, side := range compare.Sides {
			name := names[side]
			if name == "" {
				continue
			}
			alg, err := mst.ParseAlgorithm(name)
			if err != nil {
				return nil, err
			}
			if err := c.SetAlgorithm(side, alg); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "cannot change algorithm")
			}
		}
		return nil, nil
	})
}

// handleTick performs one timer tick under the session's mode.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(ctx context.Context, c *compare.Comparison) ([]compare.Side, error) {
		return c.Tick(ctx), nil
	})
}

// handleStep advances one side, or both, regardless of the running flags.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	side, err := sideParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutateSession(w, r, func(ctx context.Context, c *compare.Comparison) ([]compare.Side, error) {
		var advanced []compare.Side
		for _, sd := range compare.Sides {
			if (side == "" || side == sd) && c.Step(ctx, sd) {
				advanced = append(advanced, sd)
			}
		}
		return advanced, nil
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.sideAction(w, r, (*compare.Comparison).Start, (*compare.Comparison).StartSide)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.sideAction(w, r, (*compare.Comparison).Pause, (*compare.Comparison).PauseSide)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	side, err := sideParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutateSession(w, r, func(_ context.Context, c *compare.Comparison) ([]compare.Side, error) {
		if side == "" {
			return nil, c.Reset()
		}
		return nil, c.ResetSide(side)
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, ok := sess.Comparison.Result()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"complete": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"complete": true, "result": res})
}

// sideAction applies both to the whole comparison, or one to the side named
// by ?side=.
func (s *Server) sideAction(w http.ResponseWriter, r *http.Request, both func(*compare.Comparison), one func(*compare.Comparison, compare.Side)) {
	side, err := sideParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutateSession(w, r, func(_ context.Context, c *compare.Comparison) ([]compare.Side, error) {
		if side == "" {
			both(c)
		} else {
			one(c, side)
		}
		return nil, nil
	})
}

// mutateSession loads the session named in the URL, applies fn to its live
// comparison, persists the result and writes the updated view.
func (s *Server) mutateSession(w http.ResponseWriter, r *http.Request, fn func(context.Context, *compare.Comparison) ([]compare.Side, error)) {
	ctx := r.Context()
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	sess, err := s.sessions.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := sess.Restore()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	before := c.Snapshot()
	advanced, err := fn(ctx, c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.recordSessionRuns(before, c.Snapshot(), len(sess.Nodes), len(sess.Edges))
	sess.Save(c)
	if err := s.sessions.Set(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, advanced))
}
