package metrics

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"music-player/internal/logging"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Health is the payload served on /healthz.
type Health struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	Tracks       int    `json:"tracks"`
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthFunc reports current application health.
type HealthFunc func() Health

// NewServer creates the observability HTTP server exposing Prometheus
// metrics on /metrics and a health summary on /healthz.
func NewServer(port string, health HealthFunc) *http.Server {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		h := Health{Status: "healthy"}
		if health != nil {
			h = health()
		}
		h.GoVersion = runtime.Version()
		h.NumGoroutine = runtime.NumGoroutine()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(h); err != nil {
			logging.Error("failed to encode health response: %v", err)
		}
	}).Methods("GET")

	return &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
