package repository

import (
	"context"
	"time"

	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/live"
	"github.com/Spok95/driving-school-bot/internal/mapper"
	"github.com/Spok95/driving-school-bot/internal/models"
)

type DrivingClassRepository struct{ base }

func (r *DrivingClassRepository) GetByID(ctx context.Context, id int64) (*models.DrivingClass, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	rec, err := db.GetDrivingClassByID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return mapOne(rec, mapper.DrivingClassToDomain), nil
}

func (r *DrivingClassRepository) List(ctx context.Context, f db.ClassFilter) ([]models.DrivingClass, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	recs, err := db.ListDrivingClasses(ctx, r.db, f)
	if err != nil {
		return nil, err
	}
	return mapAll(recs, mapper.DrivingClassToDomain), nil
}

func (r *DrivingClassRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.DrivingClass, error) {
	return r.List(ctx, db.ClassFilter{StudentID: &studentID})
}

func (r *DrivingClassRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]models.DrivingClass, error) {
	return r.List(ctx, db.ClassFilter{InstructorID: &instructorID})
}

// ListByStatus — строки с нераспознанным статусом читаются как SCHEDULED и попадают в ту же выборку.
func (r *DrivingClassRepository) ListByStatus(ctx context.Context, status models.ClassStatus) ([]models.DrivingClass, error) {
	return r.List(ctx, classStatusFilter(status))
}

func classStatusFilter(status models.ClassStatus) db.ClassFilter {
	tok := mapper.ClassStatusToken(status)
	f := db.ClassFilter{Status: &tok}
	if status == models.ClassScheduled {
		f.KnownStatuses = mapper.ClassStatusTokens()
	}
	return f
}

func (r *DrivingClassRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.DrivingClass, error) {
	return r.List(ctx, db.ClassFilter{From: &from, To: &to})
}

func (r *DrivingClassRepository) ListUpcomingByStudent(ctx context.Context, studentID int64, from time.Time) ([]models.DrivingClass, error) {
	return r.List(ctx, db.ClassFilter{StudentID: &studentID, From: &from})
}

func (r *DrivingClassRepository) Insert(ctx context.Context, c models.DrivingClass) (int64, error) {
	if err := r.wait(ctx); err != nil {
		return 0, err
	}
	id, err := db.InsertDrivingClass(ctx, r.db, mapper.DrivingClassToRecord(c))
	if err != nil {
		return 0, err
	}
	r.hub.Publish(live.DrivingClasses)
	return id, nil
}

func (r *DrivingClassRepository) Update(ctx context.Context, c models.DrivingClass) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpdateDrivingClass(ctx, r.db, mapper.DrivingClassToRecord(c))
	if err != nil {
		return err
	}
	r.changed(n, live.DrivingClasses)
	return nil
}

func (r *DrivingClassRepository) UpdateStatus(ctx context.Context, id int64, status models.ClassStatus) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpdateDrivingClassStatus(ctx, r.db, id, mapper.ClassStatusToken(status))
	if err != nil {
		return err
	}
	r.changed(n, live.DrivingClasses)
	return nil
}

func (r *DrivingClassRepository) UpdateProgress(ctx context.Context, id int64, completedHours int, notes string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpdateDrivingClassProgress(ctx, r.db, id, completedHours, notes)
	if err != nil {
		return err
	}
	r.changed(n, live.DrivingClasses)
	return nil
}

func (r *DrivingClassRepository) Delete(ctx context.Context, id int64) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.DeleteDrivingClass(ctx, r.db, id)
	if err != nil {
		return err
	}
	r.changed(n, live.DrivingClasses)
	return nil
}

func (r *DrivingClassRepository) WatchByStudent(ctx context.Context, studentID int64) <-chan live.Snapshot[models.DrivingClass] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]models.DrivingClass, error) {
		return r.ListByStudent(ctx, studentID)
	}, live.DrivingClasses)
}

func (r *DrivingClassRepository) WatchByInstructor(ctx context.Context, instructorID int64) <-chan live.Snapshot[models.DrivingClass] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]models.DrivingClass, error) {
		return r.ListByInstructor(ctx, instructorID)
	}, live.DrivingClasses)
}
