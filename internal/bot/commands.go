package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/account"
	"github.com/Spok95/driving-school-bot/internal/bot/menu"
	"github.com/Spok95/driving-school-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/driving-school-bot/internal/ctxutil"
	"github.com/Spok95/driving-school-bot/internal/export"
	"github.com/Spok95/driving-school-bot/internal/models"
	"github.com/Spok95/driving-school-bot/internal/tg"
)

const (
	defaultExportDays = 7
	maxExportDays     = 62
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	cmd, args := splitCommand(text)
	op := "message"
	if strings.HasPrefix(cmd, "/") {
		op = cmd
	}
	ctx = ctxutil.WithOp(ctx, op)

	switch cmd {
	case "/start", "/help":
		b.cmdStart(ctx, chatID)
		return
	case "/link":
		b.cmdLink(ctx, msg, args)
		return
	}

	if fsmutil.IsCancelText(text) {
		b.abandonFlows(chatID)
		b.reply(chatID, "Действие отменено.")
		return
	}

	u, err := b.store.Users.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, "load user", err)
		return
	}
	if u == nil {
		b.reply(chatID, "⚠️ Аккаунт не привязан. Отправьте /link <email> <пароль>.")
		return
	}
	if !fsmutil.CanOperate(u) {
		rm := tgbotapi.NewMessage(chatID, "🚫 Доступ к боту временно закрыт. Обратитесь к администратору.")
		rm.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		_, _ = tg.Send(b.api, rm)
		return
	}
	ctx = ctxutil.WithUserID(ctx, u.ID)

	switch cmd {
	case "/unlink":
		b.cmdUnlink(ctx, chatID)
	case "/book_class", menu.BtnBookClass:
		b.startClassFlow(ctx, chatID, u)
	case "/reschedule":
		b.cmdReschedule(ctx, chatID, u, args)
	case "/my", menu.BtnMySchedule:
		b.cmdMySchedule(ctx, chatID, u)
	case "/export", menu.BtnExport:
		b.cmdExport(ctx, chatID, u, args)
	case "/register":
		b.cmdRegister(ctx, msg, u, args)
	case "/deactivate":
		b.cmdSetActive(ctx, chatID, u, args, false)
	case "/reactivate":
		b.cmdSetActive(ctx, chatID, u, args, true)
	default:
		b.reply(chatID, "⚠️ Неизвестная команда. Используйте /start")
	}
}

// splitCommand отделяет команду от аргументов и срезает @botname.
func splitCommand(text string) (string, []string) {
	if !strings.HasPrefix(text, "/") {
		return text, nil
	}
	fields := strings.Fields(text)
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), fields[1:]
}

func (b *Bot) cmdStart(ctx context.Context, chatID int64) {
	u, err := b.store.Users.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, "load user", err)
		return
	}
	if u == nil {
		b.reply(chatID, "Добро пожаловать в автошколу!\nЧтобы продолжить, привяжите аккаунт: /link <email> <пароль>")
		return
	}
	text := fmt.Sprintf("Здравствуйте, %s! Выберите действие:", u.FullName())
	if u.Role == models.Admin {
		text += "\n\nАдминистрирование:\n/register — новый пользователь\n/deactivate <id>, /reactivate <id>"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = menu.GetRoleMenu(u.Role)
	_, _ = tg.Send(b.api, msg)
}

func (b *Bot) cmdLink(ctx context.Context, msg *tgbotapi.Message, args []string) {
	chatID := msg.Chat.ID
	// сообщение с паролем в чате не оставляем
	_, _ = tg.Request(b.api, tgbotapi.NewDeleteMessage(chatID, msg.MessageID))

	if len(args) != 2 {
		b.reply(chatID, "Формат: /link <email> <пароль>")
		return
	}
	u, err := b.accounts.LinkTelegram(ctx, args[0], args[1], chatID)
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		b.reply(chatID, "❌ Неверный email или пароль.")
		return
	case errors.Is(err, account.ErrInactive):
		b.reply(chatID, "🚫 Аккаунт деактивирован. Обратитесь к администратору.")
		return
	case err != nil:
		b.fail(ctx, chatID, "link telegram", err)
		return
	}
	out := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Аккаунт %s привязан.", u.Email))
	out.ReplyMarkup = menu.GetRoleMenu(u.Role)
	_, _ = tg.Send(b.api, out)
}

func (b *Bot) cmdUnlink(ctx context.Context, chatID int64) {
	b.abandonFlows(chatID)
	if err := b.accounts.Unlink(ctx, chatID); err != nil && !errors.Is(err, account.ErrNotFound) {
		b.fail(ctx, chatID, "unlink telegram", err)
		return
	}
	rm := tgbotapi.NewMessage(chatID, "Аккаунт отвязан.")
	rm.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, _ = tg.Send(b.api, rm)
}

func (b *Bot) cmdReschedule(ctx context.Context, chatID int64, u *models.User, args []string) {
	if len(args) != 1 {
		b.reply(chatID, "Формат: /reschedule <номер записи>")
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		b.reply(chatID, "Номер записи должен быть положительным числом.")
		return
	}
	b.startEditFlow(ctx, chatID, u, id)
}

func (b *Bot) cmdMySchedule(ctx context.Context, chatID int64, u *models.User) {
	from := b.today()
	var (
		appts   []models.Appointment
		classes []models.DrivingClass
		err     error
	)
	switch u.Role {
	case models.Instructor:
		if appts, err = b.store.Appointments.ListByInstructor(ctx, u.ID); err == nil {
			classes, err = b.store.Classes.ListByInstructor(ctx, u.ID)
		}
	case models.Examiner:
		appts, err = b.store.Appointments.ListByExaminer(ctx, u.ID)
	default:
		if appts, err = b.store.Appointments.ListUpcomingByUser(ctx, u.ID, from); err == nil {
			classes, err = b.store.Classes.ListUpcomingByStudent(ctx, u.ID, from)
		}
	}
	if err != nil {
		b.fail(ctx, chatID, "list schedule", err)
		return
	}
	b.reply(chatID, formatSchedule(from, appts, classes))
}

// formatSchedule — ближайшие записи и занятия начиная с from, в порядке даты и времени.
func formatSchedule(from time.Time, appts []models.Appointment, classes []models.DrivingClass) string {
	type line struct {
		date time.Time
		hhmm string
		text string
	}
	var lines []line
	for _, a := range appts {
		if a.ScheduledDate.Before(from) && !sameDate(a.ScheduledDate, from) {
			continue
		}
		if a.Status == models.StatusCancelled {
			continue
		}
		lines = append(lines, line{a.ScheduledDate, a.ScheduledTime,
			fmt.Sprintf("#%d %s %s — %s (%s)", a.ID, dateLabel(a.ScheduledDate), a.ScheduledTime, a.Type, a.Status)})
	}
	for _, c := range classes {
		if c.ScheduledDate.Before(from) && !sameDate(c.ScheduledDate, from) {
			continue
		}
		if c.Status == models.ClassCancelled {
			continue
		}
		lines = append(lines, line{c.ScheduledDate, c.ScheduledTime,
			fmt.Sprintf("🚗 %s %s — %s, %d/%d ч (%s)", dateLabel(c.ScheduledDate), c.ScheduledTime, c.Package.Label(), c.CompletedHours, c.TotalHours, c.Status)})
	}
	if len(lines) == 0 {
		return "Ближайших записей нет."
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if !sameDate(lines[i].date, lines[j].date) {
			return lines[i].date.Before(lines[j].date)
		}
		return lines[i].hhmm < lines[j].hhmm
	})
	var sb strings.Builder
	sb.WriteString("📅 Ваше расписание:\n")
	for _, l := range lines {
		sb.WriteString(l.text)
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// parseExportDays — необязательный аргумент /export: число дней, по умолчанию неделя.
func parseExportDays(args []string) (int, error) {
	if len(args) == 0 {
		return defaultExportDays, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > maxExportDays {
		return 0, fmt.Errorf("days must be 1..%d", maxExportDays)
	}
	return n, nil
}

func (b *Bot) cmdExport(ctx context.Context, chatID int64, u *models.User, args []string) {
	if !fsmutil.IsStaff(u) {
		b.reply(chatID, "🚫 Выгрузка доступна только сотрудникам.")
		return
	}
	days, err := parseExportDays(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Формат: /export [дней 1..%d]", maxExportDays))
		return
	}
	if !fsmutil.SetPending(chatID, "export") {
		b.reply(chatID, "⏳ Выгрузка уже готовится.")
		return
	}
	defer fsmutil.ClearPending(chatID, "export")

	from := b.today()
	to := from.AddDate(0, 0, days)
	appts, err := b.store.Appointments.ListByDateRange(ctx, from, to)
	if err != nil {
		b.fail(ctx, chatID, "export appointments", err)
		return
	}
	classes, err := b.store.Classes.ListByDateRange(ctx, from, to)
	if err != nil {
		b.fail(ctx, chatID, "export classes", err)
		return
	}
	users, err := b.store.Users.ListActive(ctx)
	if err != nil {
		b.fail(ctx, chatID, "export users", err)
		return
	}
	byID := make(map[int64]models.User, len(users))
	for _, x := range users {
		byID[x.ID] = x
	}

	wb, err := export.ScheduleWorkbook(export.Schedule{From: from, To: to, Appointments: appts, Classes: classes, Users: byID})
	if err != nil {
		b.fail(ctx, chatID, "build workbook", err)
		return
	}
	defer func() { _ = wb.Close() }()
	raw, err := wb.Bytes()
	if err != nil {
		b.fail(ctx, chatID, "write workbook", err)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: export.BuildScheduleFilename(from, to), Bytes: raw})
	doc.Caption = fmt.Sprintf("Расписание: %d записей, %d занятий", len(appts), len(classes))
	if _, err := tg.Send(b.api, doc); err != nil {
		b.log.Warn("export not delivered", append(ctxutil.LogFields(ctx), zap.Error(err))...)
	}
}
