package repository

import (
	"context"
	"time"

	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/live"
	"github.com/Spok95/driving-school-bot/internal/mapper"
	"github.com/Spok95/driving-school-bot/internal/models"
)

type AppointmentRepository struct{ base }

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	rec, err := db.GetAppointmentByID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return mapOne(rec, mapper.AppointmentToDomain), nil
}

// List — по дате и времени по возрастанию.
func (r *AppointmentRepository) List(ctx context.Context, f db.AppointmentFilter) ([]models.Appointment, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	recs, err := db.ListAppointments(ctx, r.db, f)
	if err != nil {
		return nil, err
	}
	return mapAll(recs, mapper.AppointmentToDomain), nil
}

func (r *AppointmentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Appointment, error) {
	return r.List(ctx, db.AppointmentFilter{UserID: &userID})
}

func (r *AppointmentRepository) ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	s := string(status)
	return r.List(ctx, db.AppointmentFilter{Status: &s})
}

func (r *AppointmentRepository) ListByType(ctx context.Context, t models.AppointmentType) ([]models.Appointment, error) {
	s := string(t)
	return r.List(ctx, db.AppointmentFilter{Type: &s})
}

func (r *AppointmentRepository) ListByExaminer(ctx context.Context, examinerID int64) ([]models.Appointment, error) {
	return r.List(ctx, db.AppointmentFilter{ExaminerID: &examinerID})
}

func (r *AppointmentRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]models.Appointment, error) {
	return r.List(ctx, db.AppointmentFilter{InstructorID: &instructorID})
}

// ListByDateRange — from включительно, to исключительно.
func (r *AppointmentRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	return r.List(ctx, db.AppointmentFilter{From: &from, To: &to})
}

func (r *AppointmentRepository) ListUpcomingByUser(ctx context.Context, userID int64, from time.Time) ([]models.Appointment, error) {
	return r.List(ctx, db.AppointmentFilter{UserID: &userID, From: &from})
}

func (r *AppointmentRepository) Insert(ctx context.Context, a models.Appointment) (int64, error) {
	if err := r.wait(ctx); err != nil {
		return 0, err
	}
	id, err := db.InsertAppointment(ctx, r.db, mapper.AppointmentToRecord(a))
	if err != nil {
		return 0, err
	}
	r.hub.Publish(live.Appointments)
	return id, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a models.Appointment) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpdateAppointment(ctx, r.db, mapper.AppointmentToRecord(a))
	if err != nil {
		return err
	}
	r.changed(n, live.Appointments)
	return nil
}

// UpdateStatus не проверяет переходы: допустим любой статус после любого.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status models.AppointmentStatus) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpdateAppointmentStatus(ctx, r.db, id, string(status))
	if err != nil {
		return err
	}
	r.changed(n, live.Appointments)
	return nil
}

// Reschedule меняет тип лицензии, дату и время. Возвращает false, если записи нет.
func (r *AppointmentRepository) Reschedule(ctx context.Context, id int64, licenseTypeID *string, date time.Time, hhmm string) (bool, error) {
	if err := r.wait(ctx); err != nil {
		return false, err
	}
	n, err := db.RescheduleAppointment(ctx, r.db, id, licenseTypeID, date, hhmm)
	if err != nil {
		return false, err
	}
	r.changed(n, live.Appointments)
	return n > 0, nil
}

func (r *AppointmentRepository) LinkMedicalEvaluation(ctx context.Context, appointmentID, evaluationID int64) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.LinkMedicalEvaluation(ctx, r.db, appointmentID, evaluationID)
	if err != nil {
		return err
	}
	r.changed(n, live.Appointments)
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.DeleteAppointment(ctx, r.db, id)
	if err != nil {
		return err
	}
	r.changed(n, live.Appointments)
	return nil
}

// DueForReminder — записи в окне [from, to) без отправленного напоминания у пользователей с привязанным чатом.
func (r *AppointmentRepository) DueForReminder(ctx context.Context, from, to time.Time, batch int) ([]models.Appointment, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	recs, err := db.DueForReminder(ctx, r.db, from, to, batch)
	if err != nil {
		return nil, err
	}
	return mapAll(recs, mapper.AppointmentToDomain), nil
}

func (r *AppointmentRepository) MarkReminded(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.wait(ctx); err != nil {
		return err
	}
	_, err := db.MarkReminded(ctx, r.db, ids)
	return err
}

func (r *AppointmentRepository) WatchByUser(ctx context.Context, userID int64) <-chan live.Snapshot[models.Appointment] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]models.Appointment, error) {
		return r.ListByUser(ctx, userID)
	}, live.Appointments)
}

func (r *AppointmentRepository) WatchByStatus(ctx context.Context, status models.AppointmentStatus) <-chan live.Snapshot[models.Appointment] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]models.Appointment, error) {
		return r.ListByStatus(ctx, status)
	}, live.Appointments)
}

func (r *AppointmentRepository) WatchByExaminer(ctx context.Context, examinerID int64) <-chan live.Snapshot[models.Appointment] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]models.Appointment, error) {
		return r.ListByExaminer(ctx, examinerID)
	}, live.Appointments)
}
