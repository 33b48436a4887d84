package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"vsftpd-manager/internal/daemonconf"
)

// ConfigHandler reads and updates the desired daemon configuration.
type ConfigHandler struct {
	Store      daemonconf.Store
	Reconciler *daemonconf.Reconciler
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	desired, err := h.Store.Load()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, desired)
}

type updateConfigResponse struct {
	Message string            `json:"message"`
	Config  daemonconf.Desired `json:"config"`
	daemonconf.Result
}

// Update validates the desired configuration before touching anything, then
// persists it, reconciles the daemon config file and reports the restart
// outcome. A restart failure is a partial success, not an error status.
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var desired daemonconf.Desired
	if err := json.NewDecoder(r.Body).Decode(&desired); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	if err := desired.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Store.Save(desired); err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	result, err := h.Reconciler.Apply(r.Context(), desired)
	switch {
	case errors.Is(err, daemonconf.ErrMalformedInput):
		httpError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	msg := "configuration updated and applied"
	if !result.Restarted {
		msg = "configuration written, daemon restart failed"
	}
	writeJSON(w, http.StatusOK, updateConfigResponse{Message: msg, Config: desired, Result: result})
}
