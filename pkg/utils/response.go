package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fabric-backend/internal/services"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to write response: %v", err)
	}
}

// Error writes {"error": msg}
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// StatusFor maps service errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ServiceError writes err with the status it maps to. Storage failures are
// logged in full and reported generically.
func ServiceError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError && errors.Is(err, services.ErrStorage) {
		log.Printf("[API] %v", err)
		Error(w, status, "Internal server error")
		return
	}
	Error(w, status, err.Error())
}
