package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	svc "notes-api/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor сопоставляет категорию ошибки сервиса HTTP статусу
func statusFor(kind svc.Kind) int {
	switch kind {
	case svc.KindValidation:
		return http.StatusBadRequest
	case svc.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError пишет ошибку в формате {"error": "..."}.
// Клиентские ошибки логируются как Warn, серверные как Error.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(svc.KindOf(err))

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("error", err.Error()),
	}
	if status < http.StatusInternalServerError {
		h.logger.Warn("Client error", fields...)
	} else {
		h.logger.Error("Server error", fields...)
	}

	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
