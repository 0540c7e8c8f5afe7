package response

import (
	"encoding/json"
	"net/http"
)

// envelope shapes match what the portal's gateway expects: successes
// wrap their payload in "data", failures carry a "message"

type dataEnvelope struct {
	Data any `json:"data"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

// Data writes a success envelope
func Data(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dataEnvelope{Data: payload})
}

// Message writes a failure envelope
func Message(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(messageEnvelope{Message: message})
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
