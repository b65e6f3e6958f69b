package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// ReplayedHeader marks responses served from an idempotency record.
const ReplayedHeader = "Idempotent-Replayed"

const internalErrorMessage = "internal server error"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeResult writes a cached operation result verbatim.
func writeResult(w http.ResponseWriter, result *usecase.Result) {
	w.Header().Set("Content-Type", "application/json")
	if result.Replayed {
		w.Header().Set(ReplayedHeader, "true")
	}
	w.WriteHeader(result.HTTPStatus)
	w.Write(result.Body)
}

// writeError writes an error using the domain taxonomy. Internal errors
// never leak their cause.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	message := err.Error()

	var de *domain.Error
	if kind == domain.KindInternal && !errors.As(err, &de) {
		message = internalErrorMessage
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(domain.HTTPStatusOf(err))
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   string(kind),
		Message: message,
	})
}

// writeBadRequest reports a malformed request.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:   string(domain.KindValidation),
		Message: message,
	})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
