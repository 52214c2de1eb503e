package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anvitha/pathtrace/internal/domain"
	"github.com/anvitha/pathtrace/internal/pathgraph"
	"github.com/anvitha/pathtrace/internal/service"
)

// APIHandlers exposes the path query REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.PathService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.PathService) *APIHandlers {
	return &APIHandlers{logger: logger, service: svc}
}

func (h *APIHandlers) handleSamplePaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	result, err := h.service.SamplePaths(r.Context(), query)
	if err != nil {
		h.writeQueryError(w, r, "sample", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) handleEnumeratePaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	result, err := h.service.EnumeratePaths(r.Context(), query)
	if err != nil {
		h.writeQueryError(w, r, "enumerate", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) handleGraphSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to summarize graph", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to summarize graph")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *APIHandlers) handleGraphReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if err := h.service.Refresh(r.Context()); err != nil {
		h.logger.Error("graph reload failed", "error", err)
		writeError(w, http.StatusBadGateway, "graph reload failed")
		return
	}
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize graph")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// writeQueryError maps engine errors onto HTTP statuses.
func (h *APIHandlers) writeQueryError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, pathgraph.ErrInvalidEndpoint):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pathgraph.ErrInvalidLength):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pathgraph.ErrSamplingExhausted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("path query failed", "operation", operation, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "path query failed")
	}
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (domain.PathQuery, bool) {
	var query domain.PathQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return domain.PathQuery{}, false
	}
	return query, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
