// Package readiness — одноразовая защёлка «хранилище готово».
// Репозитории ждут её перед каждым обращением к БД, пока идёт первичное наполнение.
package readiness

import (
	"context"
	"sync"
)

type Latch struct {
	once sync.Once
	ch   chan struct{}
}

func New() *Latch {
	return &Latch{ch: make(chan struct{})}
}

// Open открывает защёлку. Повторные вызовы ничего не делают.
func (l *Latch) Open() {
	l.once.Do(func() { close(l.ch) })
}

// Done закрывается, когда защёлка открыта.
func (l *Latch) Done() <-chan struct{} { return l.ch }

func (l *Latch) IsOpen() bool {
	select {
	case <-l.ch:
		return true
	default:
		return false
	}
}

// Wait блокируется до открытия защёлки или отмены ctx.
func (l *Latch) Wait(ctx context.Context) error {
	select {
	case <-l.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
