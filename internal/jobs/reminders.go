package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/metrics"
	"github.com/Spok95/driving-school-bot/internal/models"
)

const (
	reminderWindow = 24 * time.Hour
	reminderBatch  = 100
)

type ReminderStore interface {
	DueForReminder(ctx context.Context, from, to time.Time, batch int) ([]models.Appointment, error)
	MarkReminded(ctx context.Context, ids []int64) error
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// AppointmentReminder напоминает о записях, начинающихся в ближайшие сутки, один раз на запись.
type AppointmentReminder struct {
	Appointments ReminderStore
	Users        UserLookup
	Notifier     Notifier
	Location     *time.Location
	Now          func() time.Time
	Log          *zap.Logger
}

// Run — одна итерация: выбрать, отправить, пометить.
// Записи, время которых уже прошло, помечаются без отправки, чтобы не занимать пачку.
func (j *AppointmentReminder) Run(ctx context.Context) error {
	now := j.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, j.loc())

	due, err := j.Appointments.DueForReminder(ctx, today, today.AddDate(0, 0, 2), reminderBatch)
	if err != nil {
		return fmt.Errorf("due for reminder: %w", err)
	}

	done := make([]int64, 0, len(due))
	var firstErr error
	for _, a := range due {
		start, ok := StartsAt(a, j.loc())
		if !ok || !start.After(now) {
			metrics.Reminders.WithLabelValues("skipped").Inc()
			done = append(done, a.ID)
			continue
		}
		if start.Sub(now) > reminderWindow {
			continue
		}
		u, err := j.Users.GetByID(ctx, a.UserID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if u == nil || u.TelegramChatID == nil {
			metrics.Reminders.WithLabelValues("skipped").Inc()
			done = append(done, a.ID)
			continue
		}
		if err := j.Notifier.Notify(ctx, *u.TelegramChatID, ReminderText(a)); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			metrics.Reminders.WithLabelValues("failed").Inc()
			j.logger().Warn("reminder not sent", zap.Int64("appointment_id", a.ID), zap.Error(err))
			continue
		}
		metrics.Reminders.WithLabelValues("sent").Inc()
		done = append(done, a.ID)
	}

	if err := j.Appointments.MarkReminded(ctx, done); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	if len(done) > 0 {
		j.logger().Info("reminders processed", zap.Int("count", len(done)))
	}
	return firstErr
}

// StartsAt — дата записи плюс время "HH:MM" в поясе loc.
func StartsAt(a models.Appointment, loc *time.Location) (time.Time, bool) {
	hm, err := time.Parse("15:04", a.ScheduledTime)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := a.ScheduledDate.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, loc), true
}

func ReminderText(a models.Appointment) string {
	return fmt.Sprintf("⏰ Напоминание: %s %s в %s (%s).",
		appointmentTypeLabel(a.Type),
		a.ScheduledDate.Format("02.01.2006"),
		a.ScheduledTime,
		placeOrDash(a.Location),
	)
}

func appointmentTypeLabel(t models.AppointmentType) string {
	switch t {
	case models.MedicalExam:
		return "медосмотр"
	case models.TheoryExam:
		return "теоретический экзамен"
	case models.PracticalExam:
		return "практический экзамен"
	case models.DrivingLesson:
		return "занятие по вождению"
	case models.Consultation:
		return "консультация"
	}
	return string(t)
}

func placeOrDash(s string) string {
	if s == "" {
		return "место уточняется"
	}
	return s
}

func (j *AppointmentReminder) now() time.Time {
	if j.Now != nil {
		return j.Now().In(j.loc())
	}
	return time.Now().In(j.loc())
}

func (j *AppointmentReminder) loc() *time.Location {
	if j.Location != nil {
		return j.Location
	}
	return time.Local
}

func (j *AppointmentReminder) logger() *zap.Logger {
	if j.Log != nil {
		return j.Log
	}
	return zap.NewNop()
}
