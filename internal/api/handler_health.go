package api

import "net/http"

// Health reports liveness. No dependencies are probed; a reachable process
// answering is the signal.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
