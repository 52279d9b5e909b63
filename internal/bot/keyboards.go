package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/driving-school-bot/internal/booking"
	"github.com/Spok95/driving-school-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/driving-school-bot/internal/models"
)

var weekdayShort = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// dateLabel: 16.10 (Ср)
func dateLabel(d time.Time) string {
	return d.Format("02.01") + " (" + weekdayShort[int(d.Weekday())] + ")"
}

func mark(selected bool, label string) string {
	if selected {
		return "✅ " + label
	}
	return label
}

func chunk(btns []tgbotapi.InlineKeyboardButton, perRow int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(btns) > 0 {
		n := min(perRow, len(btns))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btns[:n]...))
		btns = btns[n:]
	}
	return rows
}

// dateTimeRows — общий для обоих мастеров шаг выбора даты и времени.
func dateTimeRows(flow string, dates []time.Time, times []string, selDate *time.Time, selTime string) [][]tgbotapi.InlineKeyboardButton {
	var dbtns []tgbotapi.InlineKeyboardButton
	for _, d := range dates {
		sel := selDate != nil && d.Equal(*selDate)
		dbtns = append(dbtns, tgbotapi.NewInlineKeyboardButtonData(mark(sel, dateLabel(d)), cbData(flow, actDate, d.Format(callbackDateLayout))))
	}
	var tbtns []tgbotapi.InlineKeyboardButton
	for _, t := range times {
		tbtns = append(tbtns, tgbotapi.NewInlineKeyboardButtonData(mark(t == selTime, t), cbData(flow, actTime, t)))
	}
	rows := chunk(dbtns, 2)
	rows = append(rows, chunk(tbtns, 4)...)
	if selDate != nil && selTime != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Далее ➡️", cbData(flow, actNext))))
	}
	return append(rows, fsmutil.BackCancelRow(cbData(flow, actBack), cbData(flow, actCancel)))
}

func confirmRows(flow string) [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", cbData(flow, actConfirm))),
		fsmutil.BackCancelRow(cbData(flow, actBack), cbData(flow, actCancel)),
	}
}

func cancelOnlyRow(flow string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", cbData(flow, actCancel)))
}

func emptyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: make([][]tgbotapi.InlineKeyboardButton, 0)}
}

func selectedDate(d time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}
	return &d
}

func renderClassStep(w *booking.ClassCreate) (string, tgbotapi.InlineKeyboardMarkup) {
	switch w.Step() {
	case booking.StepSelection:
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, p := range w.Packages() {
			label := fmt.Sprintf("%s — %.2f €", p.Label(), p.Price())
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(mark(p == w.SelectedPackage(), label), cbData(flowClass, actPick, string(p)))))
		}
		if w.SelectedPackage() != "" {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Далее ➡️", cbData(flowClass, actNext))))
		}
		rows = append(rows, cancelOnlyRow(flowClass))
		return "Шаг 1/3. Выберите пакет занятий:", tgbotapi.NewInlineKeyboardMarkup(rows...)

	case booking.StepDateTime:
		rows := dateTimeRows(flowClass, w.Dates(), w.Times(), selectedDate(w.SelectedDate()), w.SelectedTime())
		return "Шаг 2/3. Выберите дату и время:", tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	s, err := w.Summary()
	if err != nil {
		return "Мастер закрыт.", emptyKeyboard()
	}
	text := strings.Join([]string{
		"Шаг 3/3. Проверьте запись:",
		"Пакет: " + s.Package.Label(),
		fmt.Sprintf("Часов: %d", s.TotalHours),
		"Дата: " + dateLabel(s.Date) + " " + s.Time,
		fmt.Sprintf("Итого: %.1f €", s.TotalPrice),
	}, "\n")
	return text, tgbotapi.NewInlineKeyboardMarkup(confirmRows(flowClass)...)
}

func licenseName(l *models.LicenseType) string {
	if l == nil {
		return "—"
	}
	return l.Name
}

func renderEditStep(w *booking.AppointmentEdit) (string, tgbotapi.InlineKeyboardMarkup) {
	switch w.Step() {
	case booking.StepSelection:
		var btns []tgbotapi.InlineKeyboardButton
		sel := w.SelectedLicense()
		for _, l := range w.Licenses() {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(mark(sel != nil && sel.ID == l.ID, l.Name), cbData(flowEdit, actPick, l.ID)))
		}
		rows := chunk(btns, 2)
		if sel != nil {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Далее ➡️", cbData(flowEdit, actNext))))
		}
		rows = append(rows, cancelOnlyRow(flowEdit))
		return fmt.Sprintf("Перенос записи #%d.\nШаг 1/3. Выберите тип лицензии:", w.Original().ID), tgbotapi.NewInlineKeyboardMarkup(rows...)

	case booking.StepDateTime:
		rows := dateTimeRows(flowEdit, w.Dates(), w.Times(), selectedDate(w.SelectedDate()), w.SelectedTime())
		return "Шаг 2/3. Выберите новую дату и время (будние дни):", tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	s, err := w.Summary()
	if err != nil {
		return "Мастер закрыт.", emptyKeyboard()
	}
	text := strings.Join([]string{
		fmt.Sprintf("Шаг 3/3. Перенос записи #%d:", s.AppointmentID),
		"Было: " + licenseName(s.Original.License) + ", " + dateLabel(s.Original.Date) + " " + s.Original.Time,
		"Стало: " + licenseName(s.New.License) + ", " + dateLabel(s.New.Date) + " " + s.New.Time,
	}, "\n")
	return text, tgbotapi.NewInlineKeyboardMarkup(confirmRows(flowEdit)...)
}
