// internal/app/system/apperror/render.go
package apperror

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// payload is the JSON error body. Shape is part of the API contract:
// callers render fieldErrors beside inputs and errors as a notice.
type payload struct {
	Error       string              `json:"error"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	Errors      []string            `json:"errors,omitempty"`
}

// Status maps a fault kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON renders err as a JSON fault response. Errors that are not
// *Error values are logged and masked as a generic 500 so internals
// never leak to clients.
func WriteJSON(w http.ResponseWriter, log *zap.Logger, err error) {
	e := As(err)
	if e == nil {
		if log != nil {
			log.Error("unhandled error", zap.Error(err))
		}
		e = Persistence("Something went wrong.")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(e.Kind))
	_ = json.NewEncoder(w).Encode(payload{
		Error:       e.Msg,
		FieldErrors: e.FieldErrors,
		Errors:      e.Errors,
	})
}
