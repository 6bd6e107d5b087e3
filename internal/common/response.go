package common

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the fixed response shape every endpoint uses, success or not.
type Envelope struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Code         string `json:"code,omitempty"`
	Data         any    `json:"data,omitempty"`
	Timestamp    string `json:"timestamp"`
	ShouldLogout bool   `json:"shouldLogout,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)
	body, err := json.Marshal(env)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Failed to marshal JSON response","code":"INTERNAL_ERROR"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func RespondWithJSON(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, status, Envelope{Success: true, Message: message, Data: data})
}

func RespondWithError(w http.ResponseWriter, err error) {
	RespondWithErrorDetail(w, err, nil)
}

// RespondWithErrorDetail lets the recoverer attach diagnostic data (a stack
// trace in dev mode) without widening the envelope for normal failures.
func RespondWithErrorDetail(w http.ResponseWriter, err error, data any) {
	appErr := FromError(err)
	writeEnvelope(w, appErr.Status, Envelope{
		Success:      false,
		Message:      appErr.Message,
		Code:         appErr.Code,
		Data:         data,
		ShouldLogout: appErr.ShouldLogout,
	})
}
