package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/metrics"
	"github.com/Spok95/driving-school-bot/internal/readiness"
)

type HTTPServer struct {
	srv *http.Server
}

// Routes: /healthz — живость базы, /readyz — сидер отработал, /metrics — prometheus.
func Routes(db *sql.DB, ready *readiness.Latch) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !ready.IsOpen() {
			http.Error(w, "bootstrap in progress", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ready"))
	})

	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func StartHTTP(ctx context.Context, addr string, db *sql.DB, ready *readiness.Latch, log *zap.Logger) *HTTPServer {
	srv := &http.Server{Addr: addr, Handler: Routes(db, ready), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}
