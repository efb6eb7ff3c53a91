package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DoyleJ11/shipbot/internal/monitor"
)

const statusTimeout = 2 * time.Second

// ViewSource is satisfied by *monitor.Monitor.
type ViewSource interface {
	View(ctx context.Context) (monitor.View, error)
}

func Status(src ViewSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), statusTimeout)
		defer cancel()

		view, err := src.View(ctx)
		if err != nil {
			http.Error(w, "status unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(view)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
