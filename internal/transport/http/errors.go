package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-catalog-cache/catalog"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// statusFor maps domain errors to a status code and error code.
func statusFor(err error) (int, errorDetail) {
	var (
		notFound *catalog.NotFoundError
		invalid  *catalog.InvalidArgumentError
		failed   *catalog.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorDetail{Code: "not_found", Message: err.Error(), Kind: string(notFound.Kind)}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, errorDetail{Code: "invalid_argument", Message: err.Error(), Field: invalid.Field}
	case errors.As(err, &failed):
		return http.StatusUnprocessableEntity, errorDetail{Code: "validation_failed", Message: err.Error(), Field: failed.Field}
	default:
		return http.StatusInternalServerError, errorDetail{Code: "internal", Message: http.StatusText(http.StatusInternalServerError)}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
