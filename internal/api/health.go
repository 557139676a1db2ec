package api

import (
	"net/http"

	"rjboard/internal/upstream"
)

type HealthHandler struct {
	upstream *upstream.Client
}

func NewHealthHandler(client *upstream.Client) *HealthHandler {
	return &HealthHandler{upstream: client}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	upstreamStatus := "ok"
	status := http.StatusOK

	if err := h.upstream.Ping(r.Context()); err != nil {
		upstreamStatus = "error"
		status = http.StatusServiceUnavailable
	}

	result := "ok"
	if status != http.StatusOK {
		result = "degraded"
	}

	writeJSON(w, status, map[string]any{
		"status": result,
		"checks": map[string]string{
			"data_service": upstreamStatus,
		},
	})
}
