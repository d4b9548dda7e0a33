package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ssm-mz/dispatch-api/config"
	"github.com/ssm-mz/dispatch-api/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// fail answers with the status the domain error maps to
func fail(w http.ResponseWriter, message string, err error) {
	config.ErrorStatus(message, config.StatusFor(err), w, err)
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return nil
}
