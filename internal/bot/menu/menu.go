package menu

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/driving-school-bot/internal/models"
)

// Тексты кнопок главного меню. Диспетчер сопоставляет их с командами.
const (
	BtnBookClass  = "🚗 Записаться на вождение"
	BtnMySchedule = "📅 Моё расписание"
	BtnExport     = "📥 Выгрузка расписания"
)

// GetRoleMenu возвращает меню в зависимости от роли пользователя
func GetRoleMenu(role models.Role) tgbotapi.ReplyKeyboardMarkup {
	switch role {
	case models.Student:
		return studentMenu()
	case models.Instructor, models.Examiner:
		return staffMenu()
	case models.Admin:
		return adminMenu()
	case models.MedicalDoctor:
		return tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnMySchedule)))
	default:
		return tgbotapi.NewReplyKeyboard() // пустое меню
	}
}

func studentMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBookClass),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnMySchedule),
		),
	)
}

func staffMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnMySchedule),
			tgbotapi.NewKeyboardButton(BtnExport),
		),
	)
}

func adminMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnExport),
		),
	)
}
