// Package handlers exposes the kelly allocation engine over HTTP.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/jingmouren/gitlab-in-silico-public-charlie/internal/modules/kelly"
)

// Handler wires HTTP requests into the kelly package's core API.
type Handler struct {
	opts kelly.Options
	log  zerolog.Logger
}

// NewHandler creates a Handler with the given solver options. The logger
// embedded in opts is used for both core and transport-level logging.
func NewHandler(opts kelly.Options) *Handler {
	return &Handler{opts: opts, log: opts.Log}
}

// HandleAllocate handles POST /allocate.
func (h *Handler) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	var input kelly.AllocationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST_BODY", "could not decode JSON body: "+err.Error())
		return
	}

	resp := kelly.Allocate(r.Context(), input, h.opts)
	h.writeAllocationResponse(w, resp)
}

// HandleAnalyze handles POST /analyze.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var portfolio kelly.Portfolio
	if err := json.NewDecoder(r.Body).Decode(&portfolio); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST_BODY", "could not decode JSON body: "+err.Error())
		return
	}

	resp := kelly.Analyze(r.Context(), portfolio, h.log)
	if resp.Error != nil {
		h.writeError(w, r, statusForCode(resp.Error.Code), string(resp.Error.Code), resp.Error.Message)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeAllocationResponse(w http.ResponseWriter, resp *kelly.AllocationResponse) {
	if resp.Error != nil && resp.Error.Code == kelly.CodeInternalError {
		h.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	if resp.Error != nil {
		h.writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func statusForCode(code kelly.ErrorCode) int {
	if code == kelly.CodeInternalError {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeJSON(w, status, map[string]string{
		"message":    message,
		"error_code": code,
		"request_id": middleware.GetReqID(r.Context()),
	})
}
