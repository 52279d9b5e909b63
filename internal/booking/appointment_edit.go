package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/metrics"
	"github.com/Spok95/driving-school-bot/internal/models"
)

const workflowAppointmentEdit = "appointment_edit"

type AppointmentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Appointment, error)
	Reschedule(ctx context.Context, id int64, licenseTypeID *string, date time.Time, hhmm string) (bool, error)
}

type LicenseCatalog interface {
	ListActive(ctx context.Context) ([]models.LicenseType, error)
}

// AppointmentEdit: тип лицензии -> дата и время -> подтверждение.
type AppointmentEdit struct {
	wizard

	store    AppointmentStore
	original models.Appointment
	licenses []models.LicenseType
	license  *models.LicenseType
}

// AppointmentSide — одна сторона сравнения «было / стало».
type AppointmentSide struct {
	License *models.LicenseType
	Date    time.Time
	Time    string
}

type AppointmentEditSummary struct {
	AppointmentID int64
	Original      AppointmentSide
	New           AppointmentSide
}

// StartAppointmentEdit загружает запись и активные типы лицензий. Ничего не выбрано заранее.
func StartAppointmentEdit(ctx context.Context, appts AppointmentStore, catalog LicenseCatalog, appointmentID int64, now time.Time, log *zap.Logger) (*AppointmentEdit, error) {
	a, err := appts.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	licenses, err := catalog.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	w := &AppointmentEdit{
		wizard:   newWizard(workflowAppointmentEdit, AvailableDates(now, WeekendsOff), AppointmentTimes(), log),
		store:    appts,
		original: *a,
		licenses: licenses,
	}
	w.log = w.log.With(zap.Int64("appointment_id", appointmentID))
	return w, nil
}

func (w *AppointmentEdit) Original() models.Appointment { return w.original }

func (w *AppointmentEdit) Licenses() []models.LicenseType {
	return append([]models.LicenseType(nil), w.licenses...)
}

func (w *AppointmentEdit) SelectedLicense() *models.LicenseType { return w.license }

func (w *AppointmentEdit) SelectLicense(id string) error {
	if err := w.at(StepSelection); err != nil {
		return err
	}
	for i := range w.licenses {
		if w.licenses[i].ID == id {
			l := w.licenses[i]
			w.license = &l
			return nil
		}
	}
	return ErrUnknownOption
}

func (w *AppointmentEdit) Next() error {
	return w.advance(w.license != nil)
}

func (w *AppointmentEdit) Summary() (AppointmentEditSummary, error) {
	if err := w.at(StepConfirmation); err != nil {
		return AppointmentEditSummary{}, err
	}
	s := AppointmentEditSummary{
		AppointmentID: w.original.ID,
		Original: AppointmentSide{
			Date: w.original.ScheduledDate,
			Time: w.original.ScheduledTime,
		},
		New: AppointmentSide{License: w.license, Date: *w.date, Time: w.hhmm},
	}
	if w.original.LicenseTypeID != nil {
		for i := range w.licenses {
			if w.licenses[i].ID == *w.original.LicenseTypeID {
				l := w.licenses[i]
				s.Original.License = &l
				break
			}
		}
	}
	return s, nil
}

// Confirm переносит запись: меняются тип лицензии, дата и время, статус остаётся прежним.
// При ошибке мастер остаётся на шаге подтверждения.
func (w *AppointmentEdit) Confirm(ctx context.Context) (*models.Appointment, error) {
	if err := w.at(StepConfirmation); err != nil {
		return nil, err
	}
	licenseID := w.license.ID
	ok, err := w.store.Reschedule(ctx, w.original.ID, &licenseID, *w.date, w.hhmm)
	if err == nil && !ok {
		err = ErrNotFound
	}
	metrics.ObserveConfirmation(workflowAppointmentEdit, err)
	if err != nil {
		w.log.Warn("confirm failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrConfirmationFailed, err)
	}

	updated := w.original
	updated.LicenseTypeID = &licenseID
	updated.ScheduledDate = *w.date
	updated.ScheduledTime = w.hhmm
	w.closed = true
	w.log.Info("appointment rescheduled",
		zap.String("license", licenseID),
		zap.Time("date", *w.date),
		zap.String("time", w.hhmm))
	return &updated, nil
}
