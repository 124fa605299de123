package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"schoolbooks/internal/errs"
	"schoolbooks/internal/service/entry"
	"schoolbooks/internal/tabular"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func notFound(w http.ResponseWriter)               { writeErr(w, http.StatusNotFound, "not_found", "not_found") }
func unprocessable(w http.ResponseWriter, msg, code string) {
	writeErr(w, http.StatusUnprocessableEntity, msg, code)
}

// writeDomainErr maps service and store errors onto the HTTP status/code
// scheme. Validation failures carry the offending field names so form UIs
// can highlight them.
func writeDomainErr(w http.ResponseWriter, err error) {
	var ve *entry.ValidationError
	if errors.As(err, &ve) {
		toJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  ve.Error(),
			Code:   "validation_error",
			Fields: ve.Fields,
		})
		return
	}
	var he *tabular.HeaderError
	if errors.As(err, &he) {
		toJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: he.Error(),
			Code:  "header_mismatch",
		})
		return
	}
	switch {
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrUnknownBook):
		notFound(w)
	case errors.Is(err, errs.ErrNotPersisted):
		unprocessable(w, err.Error(), "not_persisted")
	case errors.Is(err, errs.ErrImmutable):
		unprocessable(w, err.Error(), "immutable")
	case errors.Is(err, errs.ErrInvalid), errors.Is(err, errs.ErrUnprocessable):
		unprocessable(w, err.Error(), "validation_error")
	case errors.Is(err, errs.ErrConflict):
		writeErr(w, http.StatusConflict, err.Error(), "conflict")
	case errors.Is(err, errs.ErrForbidden):
		writeErr(w, http.StatusForbidden, err.Error(), "forbidden")
	default:
		writeErr(w, http.StatusInternalServerError, "internal_error", "internal_error")
	}
}

// requireJSON ensures the request has Content-Type application/json
// (optionally with params). Writes 415 and returns false otherwise.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		writeErr(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "unsupported_media_type")
		return false
	}
	mime := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	if mime != "application/json" {
		writeErr(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "unsupported_media_type")
		return false
	}
	return true
}
