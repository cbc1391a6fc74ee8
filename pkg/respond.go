package pkg

import (
	"encoding/json"
	"net/http"
)

type successEnvelope struct {
	Data any `json:"data"`
}

type collectionEnvelope struct {
	Data any    `json:"data"`
	Kind string `json:"kind"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// RespondSuccess writes a JSON success envelope around data.
func RespondSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(successEnvelope{Data: data})
}

// RespondCollection writes a JSON collection envelope tagged with the resource kind.
func RespondCollection(w http.ResponseWriter, data any, kind string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(collectionEnvelope{Data: data, Kind: kind})
}

// RespondError writes a JSON error envelope with the given status code.
func RespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: message})
}
