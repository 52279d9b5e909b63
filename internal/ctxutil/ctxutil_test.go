package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestWithDBTimeout(t *testing.T) {
	t.Run("default_deadline", func(t *testing.T) {
		ctx, cancel := WithDBTimeout(context.Background())
		defer cancel()
		dl, ok := ctx.Deadline()
		if !ok {
			t.Fatal("ожидали дедлайн")
		}
		if left := time.Until(dl); left > DefaultDBTimeout || left < DefaultDBTimeout-time.Second {
			t.Fatalf("неожиданный остаток %v", left)
		}
	})

	t.Run("parent_shorter_wins", func(t *testing.T) {
		parent, cancelParent := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancelParent()
		ctx, cancel := WithDBTimeout(parent)
		defer cancel()
		dl, _ := ctx.Deadline()
		if time.Until(dl) > 100*time.Millisecond {
			t.Fatal("дедлайн родителя должен сохраниться")
		}
	})
}

func TestLogFields(t *testing.T) {
	ctx := WithOp(WithUserID(WithChatID(context.Background(), 42), 7), "book_class")
	if got := len(LogFields(ctx)); got != 3 {
		t.Fatalf("ожидали 3 поля, получили %d", got)
	}
	if got := len(LogFields(context.Background())); got != 0 {
		t.Fatalf("пустой контекст: ожидали 0 полей, получили %d", got)
	}
}
