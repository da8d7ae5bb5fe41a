package metrics

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handler struct {
	Collector *Collector
}

func NewHandler(collector *Collector) *Handler {
	return &Handler{Collector: collector}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Collector.Snapshot()); err != nil {
		slog.Warn("metrics encode failed", "err", err)
	}
}
