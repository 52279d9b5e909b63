package db

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

var appointmentColumns = []string{
	"id", "user_id", "type", "license_type_id", "scheduled_date", "scheduled_time", "location", "status",
	"examiner_id", "instructor_id", "medical_evaluation_id", "notes", "reminder_sent", "created_at", "updated_at",
}

func scanAppointment(r rowScanner) (AppointmentRecord, error) {
	var a AppointmentRecord
	err := r.Scan(&a.ID, &a.UserID, &a.Type, &a.LicenseTypeID, &a.ScheduledDate, &a.ScheduledTime, &a.Location, &a.Status,
		&a.ExaminerID, &a.InstructorID, &a.MedicalEvaluationID, &a.Notes, &a.ReminderSent, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// AppointmentFilter — все поля опциональны; пустой фильтр вернёт все записи.
type AppointmentFilter struct {
	UserID       *int64
	ExaminerID   *int64
	InstructorID *int64
	Status       *string
	Type         *string
	From         *time.Time // включительно
	To           *time.Time // исключительно
}

func (f AppointmentFilter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if f.UserID != nil {
		b = b.Where(sq.Eq{"user_id": *f.UserID})
	}
	if f.ExaminerID != nil {
		b = b.Where(sq.Eq{"examiner_id": *f.ExaminerID})
	}
	if f.InstructorID != nil {
		b = b.Where(sq.Eq{"instructor_id": *f.InstructorID})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": *f.Status})
	}
	if f.Type != nil {
		b = b.Where(sq.Eq{"type": *f.Type})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"scheduled_date": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.Lt{"scheduled_date": *f.To})
	}
	return b
}

func GetAppointmentByID(ctx context.Context, q Querier, id int64) (*AppointmentRecord, error) {
	return selectOne(ctx, q, psql.Select(appointmentColumns...).From("appointments").Where(sq.Eq{"id": id}), scanAppointment)
}

// ListAppointments — по возрастанию даты и времени записи.
func ListAppointments(ctx context.Context, q Querier, f AppointmentFilter) ([]AppointmentRecord, error) {
	b := f.apply(psql.Select(appointmentColumns...).From("appointments"))
	return selectList(ctx, q, b.OrderBy("scheduled_date ASC", "scheduled_time ASC", "id ASC"), scanAppointment)
}

func InsertAppointment(ctx context.Context, q Querier, a AppointmentRecord) (int64, error) {
	now := time.Now()
	cols := []string{"user_id", "type", "license_type_id", "scheduled_date", "scheduled_time", "location", "status",
		"examiner_id", "instructor_id", "medical_evaluation_id", "notes", "reminder_sent", "created_at", "updated_at"}
	vals := []any{a.UserID, a.Type, a.LicenseTypeID, a.ScheduledDate, a.ScheduledTime, a.Location, a.Status,
		a.ExaminerID, a.InstructorID, a.MedicalEvaluationID, a.Notes, a.ReminderSent, now, now}

	b := psql.Insert("appointments")
	if a.ID == 0 {
		return insertReturningID(ctx, q, b.Columns(cols...).Values(vals...))
	}
	b = b.Columns(append([]string{"id"}, cols...)...).Values(append([]any{a.ID}, vals...)...).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id, type = excluded.type, license_type_id = excluded.license_type_id,
			scheduled_date = excluded.scheduled_date, scheduled_time = excluded.scheduled_time,
			location = excluded.location, status = excluded.status, examiner_id = excluded.examiner_id,
			instructor_id = excluded.instructor_id, medical_evaluation_id = excluded.medical_evaluation_id,
			notes = excluded.notes, updated_at = excluded.updated_at,
			reminder_sent = CASE
				WHEN appointments.scheduled_date = excluded.scheduled_date
				 AND appointments.scheduled_time = excluded.scheduled_time THEN appointments.reminder_sent
				ELSE excluded.reminder_sent END`)
	return upsertReturningID(ctx, q, "appointments", b)
}

// UpdateAppointment — флаг напоминания сбрасывается только при смене даты или времени.
func UpdateAppointment(ctx context.Context, q Querier, a AppointmentRecord) (int64, error) {
	return exec(ctx, q, `
		UPDATE appointments
		SET user_id = $1, type = $2, license_type_id = $3, location = $6,
		    status = $7, examiner_id = $8, instructor_id = $9, medical_evaluation_id = $10, notes = $11,
		    reminder_sent = CASE WHEN scheduled_date = $4 AND scheduled_time = $5 THEN reminder_sent ELSE FALSE END,
		    scheduled_date = $4, scheduled_time = $5, updated_at = now()
		WHERE id = $12`,
		a.UserID, a.Type, a.LicenseTypeID, a.ScheduledDate, a.ScheduledTime, a.Location,
		a.Status, a.ExaminerID, a.InstructorID, a.MedicalEvaluationID, a.Notes, a.ID)
}

func UpdateAppointmentStatus(ctx context.Context, q Querier, id int64, status string) (int64, error) {
	return exec(ctx, q, `UPDATE appointments SET status = $1, updated_at = now() WHERE id = $2`, status, id)
}

// RescheduleAppointment меняет дату/время и сбрасывает флаг напоминания.
func RescheduleAppointment(ctx context.Context, q Querier, id int64, licenseTypeID *string, date time.Time, hhmm string) (int64, error) {
	return exec(ctx, q, `
		UPDATE appointments
		SET license_type_id = $1, scheduled_date = $2, scheduled_time = $3, reminder_sent = FALSE, updated_at = now()
		WHERE id = $4`, licenseTypeID, date, hhmm, id)
}

func LinkMedicalEvaluation(ctx context.Context, q Querier, appointmentID, evaluationID int64) (int64, error) {
	return exec(ctx, q, `UPDATE appointments SET medical_evaluation_id = $1, updated_at = now() WHERE id = $2`, evaluationID, appointmentID)
}

func DeleteAppointment(ctx context.Context, q Querier, id int64) (int64, error) {
	return exec(ctx, q, `DELETE FROM appointments WHERE id = $1`, id)
}

// DueForReminder — записи в окне [from, to) для пользователей с привязанным чатом, по которым ещё не напоминали.
func DueForReminder(ctx context.Context, q Querier, from, to time.Time, batch int) ([]AppointmentRecord, error) {
	b := psql.Select(prefixed("a", appointmentColumns)...).
		From("appointments a").
		Join("users u ON u.id = a.user_id").
		Where(sq.Eq{"a.reminder_sent": false, "a.status": []string{"SCHEDULED", "CONFIRMED"}}).
		Where("u.telegram_chat_id IS NOT NULL").
		Where(sq.GtOrEq{"a.scheduled_date": from}).
		Where(sq.Lt{"a.scheduled_date": to}).
		OrderBy("a.scheduled_date", "a.scheduled_time").
		Limit(uint64(batch))
	return selectList(ctx, q, b, scanAppointment)
}

func MarkReminded(ctx context.Context, q Querier, ids []int64) (int64, error) {
	return exec(ctx, q, `UPDATE appointments SET reminder_sent = TRUE WHERE id = ANY($1)`, pq.Array(ids))
}

func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
