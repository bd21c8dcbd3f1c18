package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeError maps a domain error kind onto its HTTP status. Anything
// unclassified is logged and reported as a bare 500.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", RequestIDFromContext(r.Context())).
			Msg("request failed")
		writeErrorMessage(w, status, "internal server error")
		return
	}
	writeErrorMessage(w, status, err.Error())
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrItemUnavailable),
		errors.Is(err, domain.ErrBookingUnavailable),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// callerID reads the acting user from the sharer header.
func (s *HTTPServer) callerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(s.cfg.UserHeader))
	if raw == "" {
		return 0, domain.Invalid(fmt.Errorf("header %s is required", s.cfg.UserHeader))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(fmt.Errorf("header %s must be a positive integer", s.cfg.UserHeader))
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(fmt.Errorf("invalid id %q", raw))
	}
	return id, nil
}

func (s *HTTPServer) page(r *http.Request) (models.Page, error) {
	q := r.URL.Query()
	from, err := queryInt(q.Get("from"), "from", 0)
	if err != nil {
		return models.Page{}, err
	}
	size, err := queryInt(q.Get("size"), "size", s.cfg.PageSize)
	if err != nil {
		return models.Page{}, err
	}
	p, err := models.NewPage(from, size)
	if err != nil {
		return models.Page{}, domain.Invalid(err)
	}
	return p, nil
}

func queryInt(raw, name string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(fmt.Errorf("%s must be an integer", name))
	}
	return v, nil
}

func state(r *http.Request) (models.State, error) {
	st, err := models.ParseState(r.URL.Query().Get("state"))
	if err != nil {
		return models.State{}, domain.Invalid(err)
	}
	return st, nil
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(v); err != nil {
		return domain.Invalid(fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}
