package handler

import (
	"encoding/json"
	"net/http"

	"food-order/models"
)

// Handler answers the bare deployment root so platform health probes do not
// boot the full API.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(struct {
		models.MessageResponse
		Path string `json:"path"`
	}{
		MessageResponse: models.MessageResponse{Success: true, Message: "Food Order API"},
		Path:            r.URL.Path,
	})
}
