package readiness

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLatch_WaitBlocksUntilOpen(t *testing.T) {
	l := New()
	if l.IsOpen() {
		t.Fatal("new latch must be closed")
	}

	done := make(chan error, 1)
	go func() { done <- l.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Wait returned before Open")
	case <-time.After(50 * time.Millisecond):
	}

	l.Open()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Open")
	}
}

func TestLatch_OpenIdempotent(t *testing.T) {
	l := New()
	l.Open()
	l.Open()
	if !l.IsOpen() {
		t.Fatal("latch must be open")
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait on open latch: %v", err)
	}
}

func TestLatch_WaitRespectsContext(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}
