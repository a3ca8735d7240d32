package middleware

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/apperror"
)

func writeError(w http.ResponseWriter, status int, kind apperror.Kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"kind":    string(kind),
		"message": message,
	})
}
