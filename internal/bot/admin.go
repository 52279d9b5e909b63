package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/driving-school-bot/internal/account"
	"github.com/Spok95/driving-school-bot/internal/models"
	"github.com/Spok95/driving-school-bot/internal/tg"
)

const registerUsage = "Формат: /register <роль> <email> <dni> <пароль> <имя> <фамилия>\n" +
	"Роли: STUDENT, INSTRUCTOR, EXAMINER, ADMIN, MEDICAL_DOCTOR"

// parseRegisterArgs — фамилия может состоять из нескольких слов.
func parseRegisterArgs(args []string) (account.RegisterInput, bool) {
	if len(args) < 6 {
		return account.RegisterInput{}, false
	}
	return account.RegisterInput{
		Role:      models.Role(strings.ToUpper(args[0])),
		Email:     args[1],
		DNI:       args[2],
		Password:  args[3],
		FirstName: args[4],
		LastName:  strings.Join(args[5:], " "),
	}, true
}

func (b *Bot) cmdRegister(ctx context.Context, msg *tgbotapi.Message, admin *models.User, args []string) {
	chatID := msg.Chat.ID
	_, _ = tg.Request(b.api, tgbotapi.NewDeleteMessage(chatID, msg.MessageID))
	if admin.Role != models.Admin {
		b.reply(chatID, "⛔ Команда доступна только администратору.")
		return
	}
	in, ok := parseRegisterArgs(args)
	if !ok {
		b.reply(chatID, registerUsage)
		return
	}

	u, err := b.accounts.Register(ctx, in)
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		b.reply(chatID, "❌ Данные не прошли проверку.\n"+registerUsage)
		return
	case errors.Is(err, account.ErrEmailTaken):
		b.reply(chatID, "❌ Такой email уже зарегистрирован.")
		return
	case errors.Is(err, account.ErrDNITaken), errors.Is(err, account.ErrDuplicate):
		b.reply(chatID, "❌ Пользователь с такими данными уже существует.")
		return
	case err != nil:
		b.fail(ctx, chatID, "register user", err)
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Создан пользователь #%d %s (%s).", u.ID, u.FullName(), u.Role))
}

func (b *Bot) cmdSetActive(ctx context.Context, chatID int64, admin *models.User, args []string, active bool) {
	if admin.Role != models.Admin {
		b.reply(chatID, "⛔ Команда доступна только администратору.")
		return
	}
	if len(args) != 1 {
		b.reply(chatID, "Формат: /deactivate <id> или /reactivate <id>")
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		b.reply(chatID, "id пользователя должен быть положительным числом.")
		return
	}
	if id == admin.ID && !active {
		b.reply(chatID, "Нельзя деактивировать самого себя.")
		return
	}

	if active {
		err = b.accounts.Reactivate(ctx, id)
	} else {
		err = b.accounts.Deactivate(ctx, id)
	}
	switch {
	case errors.Is(err, account.ErrNotFound):
		b.reply(chatID, "Пользователь не найден.")
	case err != nil:
		b.fail(ctx, chatID, "set user active", err)
	case active:
		b.reply(chatID, fmt.Sprintf("✅ Пользователь #%d снова активен.", id))
	default:
		b.reply(chatID, fmt.Sprintf("🚫 Пользователь #%d деактивирован.", id))
	}
}
