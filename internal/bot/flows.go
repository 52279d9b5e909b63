package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/booking"
	"github.com/Spok95/driving-school-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/driving-school-bot/internal/ctxutil"
	"github.com/Spok95/driving-school-bot/internal/models"
	"github.com/Spok95/driving-school-bot/internal/tg"
)

// ====== STATE ======

type classSession struct {
	w     *booking.ClassCreate
	msgID int
}

type editSession struct {
	w     *booking.AppointmentEdit
	msgID int
}

func (b *Bot) getClassFlow(chatID int64) (*classSession, bool) {
	v, ok := b.classFlows.Load(chatID)
	if !ok {
		return nil, false
	}
	return v.(*classSession), true
}

func (b *Bot) getEditFlow(chatID int64) (*editSession, bool) {
	v, ok := b.editFlows.Load(chatID)
	if !ok {
		return nil, false
	}
	return v.(*editSession), true
}

// abandonFlows закрывает открытые мастера чата; в хранилище ничего не пишется.
func (b *Bot) abandonFlows(chatID int64) {
	if s, ok := b.getClassFlow(chatID); ok {
		s.w.Abandon()
		b.classFlows.Delete(chatID)
	}
	if s, ok := b.getEditFlow(chatID); ok {
		s.w.Abandon()
		b.editFlows.Delete(chatID)
	}
}

// ====== ENTRY ======

func (b *Bot) startClassFlow(ctx context.Context, chatID int64, u *models.User) {
	if u.Role != models.Student {
		b.reply(chatID, "🚫 Записываться на вождение могут только ученики.")
		return
	}
	b.abandonFlows(chatID)
	s := &classSession{w: booking.StartClassCreate(b.store.Classes, u.ID, b.now().In(b.loc), b.log.With(ctxutil.LogFields(ctx)...))}
	b.classFlows.Store(chatID, s)
	text, kb := renderClassStep(s.w)
	b.upsertStepMsg(chatID, &s.msgID, text, kb)
}

func (b *Bot) startEditFlow(ctx context.Context, chatID int64, u *models.User, appointmentID int64) {
	a, err := b.store.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		b.fail(ctx, chatID, "load appointment", err)
		return
	}
	if a == nil || (a.UserID != u.ID && u.Role != models.Admin) {
		b.reply(chatID, "Запись не найдена.")
		return
	}

	b.abandonFlows(chatID)
	w, err := booking.StartAppointmentEdit(ctx, b.store.Appointments, b.store.LicenseTypes, appointmentID, b.now().In(b.loc), b.log.With(ctxutil.LogFields(ctx)...))
	if errors.Is(err, booking.ErrNotFound) {
		b.reply(chatID, "Запись не найдена.")
		return
	}
	if err != nil {
		b.fail(ctx, chatID, "start reschedule", err)
		return
	}
	s := &editSession{w: w}
	b.editFlows.Store(chatID, s)
	text, kb := renderEditStep(w)
	b.upsertStepMsg(chatID, &s.msgID, text, kb)
}

// ====== CALLBACKS ======

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID
	cb, ok := parseCallback(cq.Data)
	if !ok {
		b.answer(cq, "")
		return
	}
	ctx = ctxutil.WithOp(ctx, "callback "+cb.flow+":"+cb.action)
	switch cb.flow {
	case flowClass:
		b.handleClassCallback(ctx, cq, cb)
	case flowEdit:
		b.handleEditCallback(ctx, cq, cb)
	default:
		b.answer(cq, "")
		fsmutil.DisableMarkup(b.api, chatID, cq.Message.MessageID)
	}
}

// answer всегда отвечаем на колбэк, чтобы Telegram "разморозил" кнопку.
func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string) {
	_, _ = tg.Request(b.api, tgbotapi.NewCallback(cq.ID, text))
}

func (b *Bot) staleSession(cq *tgbotapi.CallbackQuery) {
	b.answer(cq, "Сессия устарела, начните заново.")
	fsmutil.DisableMarkup(b.api, cq.Message.Chat.ID, cq.Message.MessageID)
}

// stepHint — подсказка пользователю по ошибке перехода.
func stepHint(err error) string {
	switch {
	case errors.Is(err, booking.ErrIncompleteStep):
		return "Сначала сделайте выбор."
	case errors.Is(err, booking.ErrUnknownOption):
		return "Этот вариант недоступен."
	case errors.Is(err, booking.ErrWrongStep), errors.Is(err, booking.ErrClosed):
		return "Кнопка устарела."
	}
	return "Ошибка."
}

func (b *Bot) parseDate(arg string) (time.Time, error) {
	return time.ParseInLocation(callbackDateLayout, arg, b.loc)
}

// wizardStep — общие для обоих мастеров действия шага 2 и навигации.
type wizardStep interface {
	SelectDate(time.Time) error
	SelectTime(string) error
	Next() error
	Back() error
}

func (b *Bot) applyCommon(w wizardStep, cb callback) (handled bool, err error) {
	switch cb.action {
	case actDate:
		d, perr := b.parseDate(cb.arg)
		if perr != nil {
			return true, booking.ErrUnknownOption
		}
		return true, w.SelectDate(d)
	case actTime:
		return true, w.SelectTime(cb.arg)
	case actNext:
		return true, w.Next()
	case actBack:
		return true, w.Back()
	}
	return false, nil
}

func (b *Bot) handleClassCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, cb callback) {
	chatID := cq.Message.Chat.ID
	s, ok := b.getClassFlow(chatID)
	if !ok || s.msgID != cq.Message.MessageID {
		b.staleSession(cq)
		return
	}

	var err error
	switch cb.action {
	case actPick:
		var p models.PackageType
		if p, err = models.ParsePackageType(cb.arg); err != nil {
			err = booking.ErrUnknownOption
			break
		}
		if err = s.w.SelectPackage(p); err == nil {
			err = s.w.Next()
		}
	case actCancel:
		b.abandonFlows(chatID)
		b.answer(cq, "")
		b.upsertStepMsg(chatID, &s.msgID, "Запись на вождение отменена.", emptyKeyboard())
		return
	case actConfirm:
		c, cerr := s.w.Confirm(ctx)
		if cerr != nil {
			b.confirmFailed(ctx, cq, cerr)
			return
		}
		b.classFlows.Delete(chatID)
		b.answer(cq, "Готово")
		text := fmt.Sprintf("✅ Занятие #%d: %s, %s %s. К оплате %.1f €.", c.ID, c.Package.Label(), dateLabel(c.ScheduledDate), c.ScheduledTime, c.Price)
		b.upsertStepMsg(chatID, &s.msgID, text, emptyKeyboard())
		return
	default:
		var handled bool
		if handled, err = b.applyCommon(s.w, cb); !handled {
			err = booking.ErrWrongStep
		}
	}

	if err != nil {
		b.answer(cq, stepHint(err))
		return
	}
	b.answer(cq, "")
	text, kb := renderClassStep(s.w)
	b.upsertStepMsg(chatID, &s.msgID, text, kb)
}

func (b *Bot) handleEditCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, cb callback) {
	chatID := cq.Message.Chat.ID
	s, ok := b.getEditFlow(chatID)
	if !ok || s.msgID != cq.Message.MessageID {
		b.staleSession(cq)
		return
	}

	var err error
	switch cb.action {
	case actPick:
		if err = s.w.SelectLicense(cb.arg); err == nil {
			err = s.w.Next()
		}
	case actCancel:
		b.abandonFlows(chatID)
		b.answer(cq, "")
		b.upsertStepMsg(chatID, &s.msgID, "Перенос записи отменён.", emptyKeyboard())
		return
	case actConfirm:
		a, cerr := s.w.Confirm(ctx)
		if cerr != nil {
			b.confirmFailed(ctx, cq, cerr)
			return
		}
		b.editFlows.Delete(chatID)
		b.answer(cq, "Готово")
		text := fmt.Sprintf("✅ Запись #%d перенесена на %s %s.", a.ID, dateLabel(a.ScheduledDate), a.ScheduledTime)
		b.upsertStepMsg(chatID, &s.msgID, text, emptyKeyboard())
		return
	default:
		var handled bool
		if handled, err = b.applyCommon(s.w, cb); !handled {
			err = booking.ErrWrongStep
		}
	}

	if err != nil {
		b.answer(cq, stepHint(err))
		return
	}
	b.answer(cq, "")
	text, kb := renderEditStep(s.w)
	b.upsertStepMsg(chatID, &s.msgID, text, kb)
}

// confirmFailed — мастер остаётся на шаге подтверждения, пользователь может повторить.
func (b *Bot) confirmFailed(ctx context.Context, cq *tgbotapi.CallbackQuery, err error) {
	if errors.Is(err, booking.ErrWrongStep) || errors.Is(err, booking.ErrClosed) {
		b.answer(cq, stepHint(err))
		return
	}
	b.log.Warn("confirmation failed", append(ctxutil.LogFields(ctx), zap.Error(err))...)
	b.answer(cq, "Не удалось сохранить, попробуйте ещё раз.")
}
