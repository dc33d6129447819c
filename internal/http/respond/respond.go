package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hongminglow/vault-auth/internal/auth"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorKind struct {
	err    error
	status int
}

// kinds is checked in order; the first match decides the status.
var kinds = []errorKind{
	{auth.ErrValidation, http.StatusBadRequest},
	{auth.ErrDuplicateUser, http.StatusConflict},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrNoToken, http.StatusUnauthorized},
	{auth.ErrTokenExpired, http.StatusForbidden},
	{auth.ErrTokenInvalid, http.StatusForbidden},
	{auth.ErrUserNotFound, http.StatusNotFound},
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Code: status, Message: message})
}

// Status maps an auth error kind to its HTTP status. Unknown errors are 500.
func Status(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// Fail writes err under the status of its kind and returns that status.
// Only validation errors keep their detail; other kinds answer with the kind's
// own message and anything unrecognised with a generic one, so causes such as
// database errors never reach the client.
func Fail(w http.ResponseWriter, err error) int {
	status := Status(err)
	Error(w, status, message(err))
	return status
}

func message(err error) string {
	if errors.Is(err, auth.ErrValidation) {
		return err.Error()
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err.Error()
		}
	}
	return "internal server error"
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}
