package booking

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/metrics"
	"github.com/Spok95/driving-school-bot/internal/models"
)

const (
	workflowClassCreate = "class_create"

	DefaultClassLocation = "Autoescuela - sede central"
)

// ClassPackages — пакеты, которые можно купить через мастер.
var ClassPackages = []models.PackageType{models.PackageBasic2H, models.PackageStandard4H}

type ClassStore interface {
	Insert(ctx context.Context, c models.DrivingClass) (int64, error)
}

// ClassCreate: пакет -> дата и время -> подтверждение с итоговой ценой.
type ClassCreate struct {
	wizard

	store     ClassStore
	studentID int64
	pkg       models.PackageType
	now       func() time.Time
}

type ClassSummary struct {
	Package    models.PackageType
	TotalHours int
	Date       time.Time
	Time       string
	TotalPrice float64
}

func StartClassCreate(classes ClassStore, studentID int64, now time.Time, log *zap.Logger) *ClassCreate {
	w := &ClassCreate{
		wizard:    newWizard(workflowClassCreate, AvailableDates(now, SundaysOff), ClassTimes(), log),
		store:     classes,
		studentID: studentID,
		now:       time.Now,
	}
	w.log = w.log.With(zap.Int64("student_id", studentID))
	return w
}

func (w *ClassCreate) Packages() []models.PackageType { return slices.Clone(ClassPackages) }

func (w *ClassCreate) SelectedPackage() models.PackageType { return w.pkg }

func (w *ClassCreate) SelectPackage(p models.PackageType) error {
	if err := w.at(StepSelection); err != nil {
		return err
	}
	if !slices.Contains(ClassPackages, p) {
		return ErrUnknownOption
	}
	w.pkg = p
	return nil
}

func (w *ClassCreate) Next() error {
	return w.advance(w.pkg != "")
}

func (w *ClassCreate) Summary() (ClassSummary, error) {
	if err := w.at(StepConfirmation); err != nil {
		return ClassSummary{}, err
	}
	return ClassSummary{
		Package:    w.pkg,
		TotalHours: w.pkg.Hours(),
		Date:       *w.date,
		Time:       w.hhmm,
		TotalPrice: w.pkg.Price(),
	}, nil
}

// Confirm создаёт занятие со статусом scheduled. При ошибке мастер остаётся на шаге подтверждения.
func (w *ClassCreate) Confirm(ctx context.Context) (*models.DrivingClass, error) {
	if err := w.at(StepConfirmation); err != nil {
		return nil, err
	}
	c := models.DrivingClass{
		StudentID:     w.studentID,
		Package:       w.pkg,
		TotalHours:    w.pkg.Hours(),
		ScheduledDate: *w.date,
		ScheduledTime: w.hhmm,
		Status:        models.ClassScheduled,
		Location:      DefaultClassLocation,
		Vehicle:       models.CarManual,
		Price:         w.pkg.Price(),
		CreatedAt:     w.now(),
	}
	id, err := w.store.Insert(ctx, c)
	metrics.ObserveConfirmation(workflowClassCreate, err)
	if err != nil {
		w.log.Warn("confirm failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrConfirmationFailed, err)
	}
	c.ID = id
	w.closed = true
	w.log.Info("driving class booked",
		zap.Int64("class_id", id),
		zap.String("package", string(w.pkg)),
		zap.Time("date", c.ScheduledDate),
		zap.String("time", c.ScheduledTime))
	return &c, nil
}
