package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/metrics"
	"github.com/Spok95/driving-school-bot/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
	wg  sync.WaitGroup
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctx: ctx, log: log}
}

// Every запускает fn по тикеру, пока жив контекст раннера. Паника в fn считается ошибкой запуска.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.runOnce(name, fn)
			}
		}
	}()
}

// Wait ждёт остановки всех задач после отмены контекста.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) runOnce(name string, fn Job) {
	start := time.Now()
	result := "ok"
	defer func() {
		if p := recover(); p != nil {
			result = "panic"
			err := fmt.Errorf("panic in job %s: %v", name, p)
			observability.CaptureWithTags(err, map[string]string{"job": name})
			r.log.Error("job panic", zap.String("job", name), zap.Error(err))
		}
		metrics.ObserveJob(name, result, time.Since(start))
	}()
	if err := fn(r.ctx); err != nil {
		result = "failed"
		observability.CaptureWithTags(err, map[string]string{"job": name})
		r.log.Warn("job failed", zap.String("job", name), zap.Error(err))
	}
}
