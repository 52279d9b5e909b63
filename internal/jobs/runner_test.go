package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Spok95/driving-school-bot/internal/metrics"
)

func TestRunner_EveryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, nil)

	var calls atomic.Int32
	r.Every(5*time.Millisecond, "test_tick", func(context.Context) error {
		calls.Add(1)
		return nil
	})
	r.Every(5*time.Millisecond, "test_panic", func(context.Context) error {
		panic("boom")
	})

	deadline := time.After(time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("job ran %d times", calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	done := make(chan struct{})
	go func() { r.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_RunOnceResult(t *testing.T) {
	r := New(context.Background(), nil)
	tests := []struct {
		name   string
		fn     Job
		result string
	}{
		{"test_result_ok", func(context.Context) error { return nil }, "ok"},
		{"test_result_failed", func(context.Context) error { return errors.New("db down") }, "failed"},
		{"test_result_panic", func(context.Context) error { panic("boom") }, "panic"},
	}
	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			r.runOnce(tt.name, tt.fn)
			if got := testutil.ToFloat64(metrics.JobRuns.WithLabelValues(tt.name, tt.result)); got != 1 {
				t.Fatalf("job_runs_total{%s,%s} = %v", tt.name, tt.result, got)
			}
		})
	}
}
