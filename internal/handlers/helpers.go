package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"book-tracker/internal/firebase"
	"book-tracker/internal/library"
	"book-tracker/internal/lifecycle"
	"book-tracker/internal/models"
)

const maxBodySize = 1 << 20

// errorResponse to treść odpowiedzi z błędem
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON zapisuje odpowiedź JSON z podanym kodem
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError dobiera kod HTTP do rodzaju błędu
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrValidation),
		errors.Is(err, lifecycle.ErrInvalidRating),
		errors.Is(err, library.ErrUnknownView),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, firebase.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, firebase.ErrUserDisabled):
		return http.StatusForbidden
	case errors.Is(err, firebase.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, library.ErrStore), errors.Is(err, errUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var (
	errBadRequest  = errors.New("nieprawidłowe żądanie")
	errUpstream    = errors.New("błąd usługi zewnętrznej")
	errUnavailable = errors.New("usługa niedostępna")
)

// decodeJSON dekoduje ciało żądania; puste ciało zostawia wartości domyślne
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
