package httpapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"recruitsite-backend-go/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteDocument serves content that must never be cached by the browser or a proxy.
func WriteDocument(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, payload)
}

// WriteRawDocument serves a stored JSON document compacted and otherwise unchanged,
// without the HTML escaping json.Encoder applies.
func WriteRawDocument(w http.ResponseWriter, raw json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		log.Printf("warn: serve raw document: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	buf.WriteByte('\n')
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service errors to their status; anything else is a 500
// with the given fallback message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if serr, ok := services.AsServiceError(err); ok {
		if serr.Status >= http.StatusInternalServerError {
			log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		}
		WriteError(w, serr.Status, serr.Message)
		return
	}
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	WriteError(w, http.StatusInternalServerError, fallback)
}

func writeSuccess(w http.ResponseWriter, fields map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for key, value := range fields {
		body[key] = value
	}
	WriteJSON(w, http.StatusOK, body)
}
