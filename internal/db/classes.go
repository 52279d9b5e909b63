package db

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var classColumns = []string{
	"id", "student_id", "instructor_id", "package_type", "total_hours", "completed_hours", "scheduled_date",
	"scheduled_time", "status", "location", "vehicle_type", "price", "notes", "created_at",
}

func scanDrivingClass(r rowScanner) (DrivingClassRecord, error) {
	var c DrivingClassRecord
	err := r.Scan(&c.ID, &c.StudentID, &c.InstructorID, &c.PackageType, &c.TotalHours, &c.CompletedHours, &c.ScheduledDate,
		&c.ScheduledTime, &c.Status, &c.Location, &c.VehicleType, &c.Price, &c.Notes, &c.CreatedAt)
	return c, err
}

type ClassFilter struct {
	StudentID    *int64
	InstructorID *int64
	Status       *string
	// KnownStatuses — при непустом списке под фильтр Status попадают и строки со статусом вне списка.
	KnownStatuses []string
	From          *time.Time
	To            *time.Time
}

func (f ClassFilter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if f.StudentID != nil {
		b = b.Where(sq.Eq{"student_id": *f.StudentID})
	}
	if f.InstructorID != nil {
		b = b.Where(sq.Eq{"instructor_id": *f.InstructorID})
	}
	if f.Status != nil {
		if len(f.KnownStatuses) > 0 {
			b = b.Where(sq.Or{sq.Eq{"status": *f.Status}, sq.NotEq{"status": f.KnownStatuses}})
		} else {
			b = b.Where(sq.Eq{"status": *f.Status})
		}
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"scheduled_date": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.Lt{"scheduled_date": *f.To})
	}
	return b
}

func GetDrivingClassByID(ctx context.Context, q Querier, id int64) (*DrivingClassRecord, error) {
	return selectOne(ctx, q, psql.Select(classColumns...).From("driving_classes").Where(sq.Eq{"id": id}), scanDrivingClass)
}

func ListDrivingClasses(ctx context.Context, q Querier, f ClassFilter) ([]DrivingClassRecord, error) {
	b := f.apply(psql.Select(classColumns...).From("driving_classes"))
	return selectList(ctx, q, b.OrderBy("scheduled_date ASC", "scheduled_time ASC", "id ASC"), scanDrivingClass)
}

func InsertDrivingClass(ctx context.Context, q Querier, c DrivingClassRecord) (int64, error) {
	cols := []string{"student_id", "instructor_id", "package_type", "total_hours", "completed_hours", "scheduled_date",
		"scheduled_time", "status", "location", "vehicle_type", "price", "notes", "created_at"}
	vals := []any{c.StudentID, c.InstructorID, c.PackageType, c.TotalHours, c.CompletedHours, c.ScheduledDate,
		c.ScheduledTime, c.Status, c.Location, c.VehicleType, c.Price, c.Notes, time.Now()}

	b := psql.Insert("driving_classes")
	if c.ID == 0 {
		return insertReturningID(ctx, q, b.Columns(cols...).Values(vals...))
	}
	b = b.Columns(append([]string{"id"}, cols...)...).Values(append([]any{c.ID}, vals...)...).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			student_id = excluded.student_id, instructor_id = excluded.instructor_id,
			package_type = excluded.package_type, total_hours = excluded.total_hours,
			completed_hours = excluded.completed_hours, scheduled_date = excluded.scheduled_date,
			scheduled_time = excluded.scheduled_time, status = excluded.status, location = excluded.location,
			vehicle_type = excluded.vehicle_type, price = excluded.price, notes = excluded.notes`)
	return upsertReturningID(ctx, q, "driving_classes", b)
}

func UpdateDrivingClass(ctx context.Context, q Querier, c DrivingClassRecord) (int64, error) {
	return exec(ctx, q, `
		UPDATE driving_classes
		SET student_id = $1, instructor_id = $2, package_type = $3, total_hours = $4, completed_hours = $5,
		    scheduled_date = $6, scheduled_time = $7, status = $8, location = $9, vehicle_type = $10,
		    price = $11, notes = $12
		WHERE id = $13`,
		c.StudentID, c.InstructorID, c.PackageType, c.TotalHours, c.CompletedHours,
		c.ScheduledDate, c.ScheduledTime, c.Status, c.Location, c.VehicleType, c.Price, c.Notes, c.ID)
}

func UpdateDrivingClassStatus(ctx context.Context, q Querier, id int64, status string) (int64, error) {
	return exec(ctx, q, `UPDATE driving_classes SET status = $1 WHERE id = $2`, status, id)
}

// UpdateDrivingClassProgress — только отработанные часы и заметки инструктора.
func UpdateDrivingClassProgress(ctx context.Context, q Querier, id int64, completedHours int, notes string) (int64, error) {
	return exec(ctx, q, `UPDATE driving_classes SET completed_hours = $1, notes = $2 WHERE id = $3`, completedHours, notes, id)
}

func DeleteDrivingClass(ctx context.Context, q Querier, id int64) (int64, error) {
	return exec(ctx, q, `DELETE FROM driving_classes WHERE id = $1`, id)
}
