package ctxutil

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyChatID key = iota
	keyUserID
	keyOpName
)

func WithChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, keyChatID, chatID)
}

func ChatID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(keyChatID).(int64)
	return id, ok
}

// WithUserID — id пользователя автошколы (users.id), не telegram.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(keyUserID).(int64)
	return id, ok
}

func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(keyOpName).(string)
	return s, ok
}

// LogFields собирает из контекста поля для zap.
func LogFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if op, ok := Op(ctx); ok {
		fields = append(fields, zap.String("op", op))
	}
	if id, ok := UserID(ctx); ok {
		fields = append(fields, zap.Int64("user_id", id))
	}
	if id, ok := ChatID(ctx); ok {
		fields = append(fields, zap.Int64("chat_id", id))
	}
	return fields
}

var DefaultDBTimeout = 5 * time.Second

// WithDBTimeout — стандартный таймаут для БД; более короткий дедлайн родителя сохраняется.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		if remain := time.Until(dl); remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
