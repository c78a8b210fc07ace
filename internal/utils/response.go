package utils

import (
	"encoding/json"
	"net/http"

	"questionbank/internal/models"
)

// JSON writes a JSON response with status code
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// JSONError writes an error message in the {success:false,error} envelope
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, models.ErrorResponse{Success: false, Error: message})
}

// Fail maps err onto its HTTP status and writes the error envelope.
func Fail(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	JSONError(w, appErr.Status, appErr.Message)
}
