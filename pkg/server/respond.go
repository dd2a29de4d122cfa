package server

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	terrors "github.com/matzehuels/treetui/pkg/errors"
	"github.com/matzehuels/treetui/pkg/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps err to a status code and writes it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
		writeJSON(w, status, errorBody{Error: "internal error", Code: string(terrors.ErrCodeInternal)})
		return
	}
	writeJSON(w, status, errorBody{Error: terrors.UserMessage(err), Code: string(terrors.GetCode(err))})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrExists):
		return http.StatusConflict
	}

	switch terrors.GetCode(err) {
	case terrors.ErrCodeInvalidInput, terrors.ErrCodeInvalidPattern, terrors.ErrCodeInvalidConfig,
		terrors.ErrCodeInvalidFormat, terrors.ErrCodeInvalidProfile, terrors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case terrors.ErrCodeEmptyInput, terrors.ErrCodeDanglingAnchor:
		return http.StatusUnprocessableEntity
	case terrors.ErrCodeNotFound, terrors.ErrCodeNodeNotFound:
		return http.StatusNotFound
	case terrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

var contentTypes = map[string]string{
	"json": "application/json",
	"text": "text/plain; charset=utf-8",
	"dot":  "text/vnd.graphviz; charset=utf-8",
	"svg":  "image/svg+xml",
	"png":  "image/png",
}
