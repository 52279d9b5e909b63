// Package bot — telegram-фронт автошколы: привязка аккаунта, мастера записи, расписание и выгрузка.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/account"
	"github.com/Spok95/driving-school-bot/internal/ctxutil"
	"github.com/Spok95/driving-school-bot/internal/metrics"
	"github.com/Spok95/driving-school-bot/internal/observability"
	"github.com/Spok95/driving-school-bot/internal/repository"
	"github.com/Spok95/driving-school-bot/internal/tg"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	store    *repository.Store
	accounts *account.Service
	loc      *time.Location
	log      *zap.Logger
	gate     *chatGate
	now      func() time.Time

	classFlows sync.Map // key: chatID(int64) -> *classSession
	editFlows  sync.Map // key: chatID(int64) -> *editSession
}

func New(api *tgbotapi.BotAPI, store *repository.Store, accounts *account.Service, loc *time.Location, log *zap.Logger) *Bot {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:      api,
		store:    store,
		accounts: accounts,
		loc:      loc,
		log:      log,
		gate:     newChatGate(),
		now:      time.Now,
	}
}

// Run читает апдейты long polling'ом до отмены ctx. Апдейты одного чата обрабатываются по очереди.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handleUpdate(ctx, upd)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	metrics.BotUpdates.Inc()

	var chatID int64
	switch {
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		chatID = upd.CallbackQuery.Message.Chat.ID
	case upd.Message != nil:
		chatID = upd.Message.Chat.ID
	default:
		return
	}

	unlock := b.gate.lock(chatID)
	defer unlock()

	ctx = ctxutil.WithChatID(ctx, chatID)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in update handler: %v", r)
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(err)
			b.log.Error("handler panic", append(ctxutil.LogFields(ctx), zap.Error(err))...)
		}
	}()

	if upd.CallbackQuery != nil {
		b.handleCallback(ctx, upd.CallbackQuery)
		return
	}
	b.handleMessage(ctx, upd.Message)
}

func (b *Bot) reply(chatID int64, text string) {
	_, _ = tg.Send(b.api, tgbotapi.NewMessage(chatID, text))
}

// fail — ошибка хранилища или телеграма: в лог, в sentry, пользователю короткое сообщение.
func (b *Bot) fail(ctx context.Context, chatID int64, op string, err error) {
	metrics.HandlerErrors.Inc()
	observability.CaptureWithTags(err, map[string]string{"op": op})
	b.log.Error(op+" failed", append(ctxutil.LogFields(ctx), zap.Error(err))...)
	b.reply(chatID, "⚠️ Что-то пошло не так, попробуйте позже.")
}

func (b *Bot) today() time.Time {
	y, m, d := b.now().In(b.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, b.loc)
}

// upsertStepMsg — первое сообщение шага отправляется, последующие редактируются на месте.
func (b *Bot) upsertStepMsg(chatID int64, msgID *int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if *msgID == 0 {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = kb
		out, err := tg.Send(b.api, msg)
		if err == nil {
			*msgID = out.MessageID
		}
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, *msgID, text, kb)
	_, _ = tg.Send(b.api, edit)
}
