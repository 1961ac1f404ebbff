package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
	"github.com/matzehuels/spantree/pkg/generate"
	"github.com/matzehuels/spantree/pkg/layout"
	"github.com/matzehuels/spantree/pkg/library"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/render"
	"github.com/matzehuels/spantree/pkg/session"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code     apperrors.Code `json:"code"`
	Message  string         `json:"message"`
	Problems []string       `json:"problems,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes the error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := classify(err)
	status := apperrors.HTTPStatus(code)
	body := errorBody{Code: code, Message: apperrors.UserMessage(err)}

	var ig *apperrors.InvalidGraphError
	if errors.As(err, &ig) {
		body.Problems = ig.Problems
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}

// classify resolves a code for coded errors and the packages' sentinels.
func classify(err error) apperrors.Code {
	if code := apperrors.GetCode(err); code != "" {
		return code
	}
	switch {
	case errors.Is(err, session.ErrNotFound):
		return apperrors.ErrCodeSessionNotFound
	case errors.Is(err, library.ErrNotFound):
		return apperrors.ErrCodeGraphNotFound
	case errors.Is(err, generate.ErrUnknownTemplate):
		return apperrors.ErrCodeNotFound
	case errors.Is(err, mst.ErrUnknownAlgorithm):
		return apperrors.ErrCodeInvalidAlgorithm
	case errors.Is(err, layout.ErrUnknownType):
		return apperrors.ErrCodeInvalidLayout
	case errors.Is(err, render.ErrUnsupportedFormat):
		return apperrors.ErrCodeInvalidFormat
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrCodeTimeout
	}
	return apperrors.ErrCodeInternal
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
