package live

import "context"

// Snapshot — очередное состояние реактивного списка. Err != nil означает, что перечитать не удалось;
// следующее изменение таблиц вызовет новую попытку.
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// Watch выдаёт результат query сразу и затем после каждого изменения tables, пока жив ctx.
// Порядок элементов — ровно тот, что вернул query. Канал закрывается при отмене ctx.
func Watch[T any](ctx context.Context, h *Hub, query func(context.Context) ([]T, error), tables ...string) <-chan Snapshot[T] {
	out := make(chan Snapshot[T], 1)
	// подписываемся до первого чтения, чтобы не потерять изменение между ними
	changes, unsubscribe := h.Subscribe(tables...)

	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			items, err := query(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- Snapshot[T]{Items: items, Err: err}:
			case <-ctx.Done():
				return
			}
			select {
			case <-changes:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
