package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/catalog-service/internal/apperror"
	"github.com/sakif/catalog-service/internal/pipeline"
)

// errorResponse is the uniform error envelope. Every failed request yields
// this shape with the HTTP status mirrored into the body, a stable numeric
// code for programmatic handling, and a human message. Data is present
// only on validation failures, carrying the field→message map.
type errorResponse struct {
	Status  int               `json:"status"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

// pageResponse is the envelope for paginated listings.
type pageResponse struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Items   any `json:"items"`
}

// emptyResponse serializes to {}. Mutations return it with status 200.
type emptyResponse struct{}

// tokenResponse is returned by signup and auth.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Endpoint adapts a guard chain to an http.HandlerFunc. This is the only
// place pipeline results and errors touch the transport: a successful run
// serializes the handler's return value with status 200, a failed one goes
// through the error mapper.
func Endpoint(chain *pipeline.Chain, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := chain.Run(r)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already out; nothing left to do but log.
			logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a failure to the error envelope. Tagged application
// errors carry their own status/code/message; anything else is an
// internal failure and maps to a generic 500 with no detail leaked,
// logged server-side with the real cause.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, logger, appErr.Status, errorResponse{
			Status:  appErr.Status,
			Code:    appErr.Code,
			Message: appErr.Message,
			Data:    appErr.Data,
		})
		return
	}

	logger.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, logger, http.StatusInternalServerError, errorResponse{
		Status:  http.StatusInternalServerError,
		Code:    apperror.CodeInternalServerError,
		Message: "Internal server error.",
	})
}
