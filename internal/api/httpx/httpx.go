package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/event-hub/internal/apperr"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Envelope wraps every successful payload.
type Envelope struct {
	Data    interface{} `json:"responseData"`
	Message string      `json:"responseMessage,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteData(w http.ResponseWriter, status int, data interface{}, msg string) {
	WriteJSON(w, status, Envelope{Data: data, Message: msg})
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteErr maps err onto the error taxonomy. Unknown errors are logged and hidden behind internal_error.
func WriteErr(w http.ResponseWriter, r *http.Request, err error) {
	code, status := apperr.Classify(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", w.Header().Get("X-Request-Id"), "err", err)
		WriteError(w, status, code, "internal error", nil)
		return
	}

	var details interface{}
	msg := err.Error()
	var fe *apperr.FieldError
	if errors.As(err, &fe) {
		details = fe.Details
		msg = apperr.ErrValidation.Error()
	}
	WriteError(w, status, code, msg, details)
}

// BadRequest is for bodies that do not decode.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteError(w, http.StatusBadRequest, apperr.CodeBadRequest, msg, nil)
}

// Decode reads a JSON body into v, rejecting unknown shapes with 400.
func Decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}
	return true
}
