package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lumina-crm/backend/internal/platform/apperror"
)

// errorEnvelope is the wire shape of every failure:
// {"error": {"code", "message", "details?"}}.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// writeError maps err to its HTTP status and serializes the envelope.
// Wrapped causes are never serialized; unclassified errors surface as a
// generic internal error.
func writeError(w http.ResponseWriter, err error) {
	var e *apperror.Error
	if !errors.As(err, &e) {
		e = apperror.New(apperror.KindInternal, "internal error")
	}
	msg := e.Message
	if e.Kind == apperror.KindInternal {
		// Internal causes stay in logs, not in responses.
		msg = "internal error"
	}
	writeJSON(w, apperror.HTTPStatus(e), errorEnvelope{
		Error: errorBody{Code: e.Code, Message: msg, Details: e.Details},
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into v, returning a validation error on
// malformed input.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Wrap(apperror.KindValidation, "invalid JSON body", err)
	}
	return nil
}
