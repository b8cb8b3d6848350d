// Package render writes JSON responses and maps domain errors onto HTTP statuses.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"emergencyHub/pkg/e"
)

type ErrorBody struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details *e.Error `json:"details,omitempty"`
}

type mapping struct {
	kind   error
	status int
	code   string
}

var mappings = []mapping{
	{e.ErrInvalidCoordinates, http.StatusBadRequest, "invalid_coordinates"},
	{e.ErrInvalidStatusValue, http.StatusBadRequest, "invalid_status"},
	{e.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{e.ErrForbidden, http.StatusForbidden, "forbidden"},
	{e.ErrVoteNotFound, http.StatusNotFound, "vote_not_found"},
	{e.ErrNotFound, http.StatusNotFound, "not_found"},
	{e.ErrDuplicateVote, http.StatusConflict, "duplicate_vote"},
	{e.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
	{e.ErrUniqueViolation, http.StatusConflict, "conflict"},
	{e.ErrConflict, http.StatusConflict, "conflict"},
	{e.ErrMediaLimitExceeded, http.StatusUnprocessableEntity, "media_limit_exceeded"},
	{e.ErrOutsideServiceArea, http.StatusUnprocessableEntity, "outside_service_area"},
	{e.ErrDeadline, http.StatusGatewayTimeout, "timeout"},
}

// Status returns the HTTP status and stable error code for err.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.kind) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("json encode failed", slog.Any("error", err))
	}
}

// Error writes the error body for err. Internal errors are not echoed to the client.
func Error(w http.ResponseWriter, err error) int {
	status, code := Status(err)

	body := ErrorBody{Code: code}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	} else {
		body.Error = err.Error()
		if d, ok := e.Details(err); ok {
			body.Details = d
		}
	}
	JSON(w, status, body)
	return status
}
