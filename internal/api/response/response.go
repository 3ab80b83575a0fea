package response

import (
	"encoding/json"
	"net/http"

	"github.com/edvin/statusboard/internal/model"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteFieldErrors reports validation failures as a structured
// collection so clients can render inline errors per field.
func WriteFieldErrors(w http.ResponseWriter, errs []model.FieldError) {
	WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
}
