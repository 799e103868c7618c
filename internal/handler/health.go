package handler

import (
	"log/slog"
	"net/http"
)

// Health returns a liveness handler for deployment probes. No guards, no
// dependencies: if the process is serving, it answers.
func Health(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}
