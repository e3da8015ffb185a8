package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RunInfo identifies the discovery run the server reports on.
type RunInfo struct {
	ID    string `json:"run_id"`
	Video string `json:"video"`
}

// StartMetricsServer exposes /metrics, /healthz, and /run for long discovery
// runs. The caller enables it by configuring a port.
func StartMetricsServer(ctx context.Context, port int, run RunInfo, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newMux(run, time.Now().UTC()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", zap.Int("port", port), zap.String("run_id", run.ID))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	return srv
}

func newMux(run RunInfo, startedAt time.Time) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			RunInfo
			StartedAt time.Time `json:"started_at"`
		}{RunInfo: run, StartedAt: startedAt})
	})
	return mux
}
