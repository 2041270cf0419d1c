package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Internal causes
// are logged here and never leak store-level detail to the caller.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	kind := apperr.KindOf(err)

	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuthentication:
		status = http.StatusUnauthorized
	case apperr.KindAuthorization:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	default:
		log.Error("unhandled error", zap.Error(err))
		writeJSON(w, status, errorResponse{Error: message, Kind: apperr.KindInternal.String()})
		return
	}

	var e *apperr.Error
	if errors.As(err, &e) {
		message = e.Message
	}

	writeJSON(w, status, errorResponse{Error: message, Kind: kind.String()})
}
