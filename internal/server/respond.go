package server

import (
	"encoding/json"
	"net/http"

	"github.com/intellisql/intellisql/internal/errs"
	"github.com/intellisql/intellisql/internal/query"
)

// errorResponse is the JSON body for every failed request. Guidance is the
// user-facing advice derived from the error kind.
type errorResponse struct {
	Error    string `json:"error"`
	Guidance string `json:"guidance,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusOf(err), errorResponse{
		Error:    err.Error(),
		Guidance: query.Guidance(err),
	})
}

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindInvalidInput, errs.ErrKindInvalidQuery,
		errs.ErrKindMissingTable, errs.ErrKindMissingColumn, errs.ErrKindQueryFailed:
		return http.StatusBadRequest
	case errs.ErrKindSchemaAccess:
		return http.StatusUnprocessableEntity
	case errs.ErrKindPermissionDenied:
		return http.StatusForbidden
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrKindConnectionFailed, errs.ErrKindCompletion:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
