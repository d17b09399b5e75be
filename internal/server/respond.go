package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"subtrack/pkg/types"
)

// Every response uses the same envelope: {success, data|error}, plus a
// count on list endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Service) respondData(w http.ResponseWriter, status int, data any) {
	s.writeJSON(w, status, envelope{Success: true, Data: data})
}

func (s *Service) respondList(w http.ResponseWriter, status int, count int, data any) {
	s.writeJSON(w, status, envelope{Success: true, Count: &count, Data: data})
}

func (s *Service) respondError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, envelope{Success: false, Error: message})
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode response body")
	}
}

// respondServiceError maps the error taxonomy onto HTTP statuses:
// not-found 404, validation and duplicate email 400, bad credentials 401,
// storage and persistence failures 500.
func (s *Service) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrSubcontractorNotFound),
		errors.Is(err, types.ErrUserNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrDuplicateEmail):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrInvalidCredentials):
		s.respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, types.ErrStorageUnavailable),
		errors.Is(err, types.ErrPersistence):
		s.respondError(w, http.StatusInternalServerError, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Service) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
