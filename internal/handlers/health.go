package handlers

import (
	"net/http"

	"vsftpd-manager/internal/probe"
)

// HealthHandler reports manager liveness and, when a prober is configured,
// whether the daemon currently accepts FTP sessions.
type HealthHandler struct {
	Prober *probe.Prober
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"ok": true}
	if h.Prober != nil {
		if err := h.Prober.Check(); err != nil {
			resp["ftp"] = "down"
			resp["ftp_error"] = err.Error()
		} else {
			resp["ftp"] = "up"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
