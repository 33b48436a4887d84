package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"vsftpd-manager/internal/xferlog"
)

// LogsHandler serves the raw daemon log and a live follow stream.
type LogsHandler struct {
	Logs    *xferlog.Service
	LogPath string
}

// Raw returns the full log as plaintext. A missing log file is a placeholder
// page, not an error status.
func (h *LogsHandler) Raw(w http.ResponseWriter, r *http.Request) {
	content, err := h.Logs.Raw()
	if errors.Is(err, xferlog.ErrSourceUnavailable) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "log file not found")
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, content)
}

// Follow streams newly appended log lines as server-sent events until the
// client disconnects.
func (h *LogsHandler) Follow(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	err := xferlog.Follow(r.Context(), h.LogPath, func(line string) {
		fmt.Fprintf(w, "data: %s\n\n", line)
		flusher.Flush()
	})
	if err != nil {
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", err)
		flusher.Flush()
	}
}
