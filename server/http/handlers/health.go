package handlers

import (
	"net/http"

	"bom-sourcing/internal/utils"
)

func Health(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
