// Package httputil provides HTTP response helpers and shared middleware.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Envelope is the response body shape shared by every endpoint:
// {"type": "success"|"error", "message": ..., "data": ...}.
// The HTTP status code carries the real signal.
type Envelope struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a success envelope. Data may be nil.
func Success(w http.ResponseWriter, status int, message string, data interface{}) {
	writeEnvelope(w, status, Envelope{Type: "success", Message: message, Data: data})
}

// Error writes an error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Type: "error", Message: message})
}

// ValidationError writes a 400 error envelope. For validator.ValidationErrors
// the offending fields are listed in data.
func ValidationError(w http.ResponseWriter, err error) {
	var details interface{}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		fieldErrors := make([]map[string]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			fieldErrors = append(fieldErrors, map[string]string{
				"field":   e.Field(),
				"message": e.Tag(),
			})
		}
		details = fieldErrors
	} else {
		details = err.Error()
	}

	writeEnvelope(w, http.StatusBadRequest, Envelope{
		Type:    "error",
		Message: "validation error",
		Data:    details,
	})
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// JSON writes a raw JSON response without envelope.
// Use Success for enveloped responses.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
