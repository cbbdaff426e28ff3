// Package api provides the REST surface used by browser front ends.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/mbernardes19/torre-matheus/internal/domain"
	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/internal/export"
	"github.com/mbernardes19/torre-matheus/pkg/httpclient"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
	"github.com/mbernardes19/torre-matheus/pkg/pagination"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
	"github.com/mbernardes19/torre-matheus/pkg/validate"
)

const requestTimeout = 60 * time.Second

// Handler serves the opportunity search endpoints
type Handler struct {
	service  opportunity.Service
	exporter *export.Exporter
	logger   *logging.Logger
}

// NewHandler creates a handler. Without an exporter the export endpoint answers 503.
func NewHandler(service opportunity.Service, exporter *export.Exporter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	if exporter == nil {
		exporter = export.NewExporter(nil)
	}
	return &Handler{
		service:  service,
		exporter: exporter,
		logger:   logger.Named("api"),
	}
}

// Routes returns the router to mount under /api/v1
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(requestTimeout))

	r.Post("/opportunities/search", h.handleSearch)
	r.Get("/opportunities/sessions/{id}", h.handleGetSession)
	r.Post("/opportunities/sessions/{id}/next", h.handlePage(pagination.Next))
	r.Post("/opportunities/sessions/{id}/previous", h.handlePage(pagination.Previous))
	r.Post("/opportunities/sessions/{id}/export", h.handleExport)
	return r
}

type searchRequest struct {
	Term       string            `json:"term" validate:"max=500"`
	Expression *torre.Expression `json:"expression"`
	Params     *torre.Params     `json:"params"`
	SessionID  string            `json:"sessionId" validate:"omitempty,uuid"`
}

type exportRequest struct {
	SpreadsheetID string `json:"spreadsheetId" validate:"required"`
	Tab           string `json:"tab"`
	Range         string `json:"range"`
	ClearTab      bool   `json:"clearTab"`
	Upsert        bool   `json:"upsert"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(body); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := opportunity.SearchRequest{
		Term:       body.Term,
		Expression: body.Expression,
		Params:     body.Params,
	}
	if body.SessionID != "" {
		req.SessionID = uuid.MustParse(body.SessionID)
	}

	h.logger.Debug("search request", "term", body.Term, "expression", body.Expression != nil)
	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.fail(w, "search failed", err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handlePage(dir pagination.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.sessionID(w, r)
		if !ok {
			return
		}

		result, err := h.service.Page(r.Context(), id, dir)
		if err != nil {
			h.fail(w, "page failed", err)
			return
		}
		h.respondJSON(w, http.StatusOK, result)
	}
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	sess, err := h.service.Session(r.Context(), id)
	if err != nil {
		h.fail(w, "session lookup failed", err)
		return
	}
	h.respondJSON(w, http.StatusOK, opportunity.ResultFor(sess, time.Now()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var body exportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(body); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.service.Session(r.Context(), id)
	if err != nil {
		h.fail(w, "session lookup failed", err)
		return
	}

	result, err := h.exporter.Export(r.Context(), export.Request{
		Session: sess,
		Target: export.Target{
			SpreadsheetID: body.SpreadsheetID,
			Tab:           body.Tab,
			Range:         body.Range,
		},
		ClearTab: body.ClearTab,
		Upsert:   body.Upsert,
	})
	if err != nil {
		h.fail(w, "export failed", err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (domain.SessionID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, "status", status, "err", err)
	} else {
		h.logger.Debug(msg, "status", status, "err", err)
	}
	h.respondError(w, status, err.Error())
}

// StatusFor maps service and upstream errors to HTTP status codes
func StatusFor(err error) int {
	var (
		statusErr  *httpclient.HTTPStatusError
		timeoutErr *httpclient.TimeoutError
		decodeErr  *httpclient.DecodeError
		networkErr *httpclient.NetworkError
		invalid    *validate.Error
	)

	switch {
	case errors.Is(err, opportunity.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, opportunity.ErrNoSuchPage), errors.Is(err, opportunity.ErrStaleResult):
		return http.StatusConflict
	case errors.Is(err, opportunity.ErrInvalidDirection), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &statusErr), errors.As(err, &decodeErr), errors.As(err, &networkErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to encode response", "err", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}
