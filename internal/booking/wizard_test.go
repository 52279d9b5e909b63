package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Spok95/driving-school-bot/internal/models"
)

var monday = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type fakeClasses struct {
	inserted []models.DrivingClass
	err      error
}

func (f *fakeClasses) Insert(_ context.Context, c models.DrivingClass) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, c)
	return int64(len(f.inserted)), nil
}

type fakeAppointments struct {
	appt        *models.Appointment
	err         error
	rescheduled int
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*models.Appointment, error) {
	if f.appt == nil || f.appt.ID != id {
		return nil, nil
	}
	c := *f.appt
	return &c, nil
}

func (f *fakeAppointments) Reschedule(_ context.Context, id int64, lt *string, date time.Time, hhmm string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.appt == nil || f.appt.ID != id {
		return false, nil
	}
	f.appt.LicenseTypeID = lt
	f.appt.ScheduledDate = date
	f.appt.ScheduledTime = hhmm
	f.rescheduled++
	return true, nil
}

type fakeCatalog []models.LicenseType

func (f fakeCatalog) ListActive(context.Context) ([]models.LicenseType, error) { return f, nil }

// businessDaysAhead — n-й рабочий день после from.
func businessDaysAhead(from time.Time, n int) time.Time {
	d := from
	for n > 0 {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			n--
		}
	}
	return d
}

func TestClassCreate_FourHourPackage(t *testing.T) {
	store := &fakeClasses{}
	w := StartClassCreate(store, 42, monday, nil)

	if err := w.SelectPackage(models.PackageStandard4H); err != nil {
		t.Fatalf("SelectPackage: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	day := businessDaysAhead(monday, 5)
	if err := w.SelectDate(day); err != nil {
		t.Fatalf("SelectDate(%v): %v", day, err)
	}
	if err := w.SelectTime("09:00"); err != nil {
		t.Fatalf("SelectTime: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	sum, err := w.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalPrice != 125.0 || sum.TotalHours != 4 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(store.inserted) != 0 {
		t.Fatal("nothing may be stored before confirm")
	}

	c, err := w.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d classes", len(store.inserted))
	}
	got := store.inserted[0]
	if got.TotalHours != 4 || got.Price != 125.0 || got.Status != models.ClassScheduled || got.StudentID != 42 {
		t.Fatalf("stored class = %+v", got)
	}
	if !sameDay(got.ScheduledDate, day) || got.ScheduledTime != "09:00" {
		t.Fatalf("stored date/time = %v %s", got.ScheduledDate, got.ScheduledTime)
	}
	if c.ID != 1 || !w.Closed() {
		t.Fatalf("class id = %d, closed = %v", c.ID, w.Closed())
	}
	if _, err := w.Confirm(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("second confirm: err = %v", err)
	}
}

func TestClassCreate_StepGuards(t *testing.T) {
	w := StartClassCreate(&fakeClasses{}, 1, monday, nil)

	t.Run("next_without_package", func(t *testing.T) {
		if err := w.Next(); !errors.Is(err, ErrIncompleteStep) {
			t.Fatalf("err = %v", err)
		}
		if w.Step() != StepSelection {
			t.Fatalf("step = %v", w.Step())
		}
	})
	t.Run("custom_not_offered", func(t *testing.T) {
		if err := w.SelectPackage(models.PackageCustom); !errors.Is(err, ErrUnknownOption) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("back_on_first_step", func(t *testing.T) {
		if err := w.Back(); !errors.Is(err, ErrWrongStep) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("date_on_wrong_step", func(t *testing.T) {
		if err := w.SelectDate(w.Dates()[0]); !errors.Is(err, ErrWrongStep) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("confirm_on_wrong_step", func(t *testing.T) {
		if _, err := w.Confirm(context.Background()); !errors.Is(err, ErrWrongStep) {
			t.Fatalf("err = %v", err)
		}
	})

	if err := w.SelectPackage(models.PackageBasic2H); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}

	t.Run("next_with_date_only", func(t *testing.T) {
		if err := w.SelectDate(w.Dates()[0]); err != nil {
			t.Fatal(err)
		}
		if err := w.Next(); !errors.Is(err, ErrIncompleteStep) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("sunday_not_offered", func(t *testing.T) {
		sunday := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
		if err := w.SelectDate(sunday); !errors.Is(err, ErrUnknownOption) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("time_outside_slots", func(t *testing.T) {
		if err := w.SelectTime("13:00"); !errors.Is(err, ErrUnknownOption) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestClassCreate_BackRestoresSelection(t *testing.T) {
	w := StartClassCreate(&fakeClasses{}, 1, monday, nil)
	_ = w.SelectPackage(models.PackageStandard4H)
	_ = w.Next()
	day := w.Dates()[2]
	_ = w.SelectDate(day)
	_ = w.SelectTime("15:30")
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}

	if err := w.Back(); err != nil {
		t.Fatal(err)
	}
	if d, ok := w.SelectedDate(); !ok || !d.Equal(day) || w.SelectedTime() != "15:30" {
		t.Fatalf("step 2 selection lost: %v %v %q", d, ok, w.SelectedTime())
	}
	if err := w.Back(); err != nil {
		t.Fatal(err)
	}
	if w.Step() != StepSelection || w.SelectedPackage() != models.PackageStandard4H {
		t.Fatalf("step = %v, package = %v", w.Step(), w.SelectedPackage())
	}

	_ = w.Next()
	if err := w.Next(); err != nil {
		t.Fatalf("re-advance with kept selection: %v", err)
	}
	if w.Step() != StepConfirmation {
		t.Fatalf("step = %v", w.Step())
	}
}

func TestClassCreate_ConfirmFailureStaysOnConfirmation(t *testing.T) {
	boom := errors.New("insert failed")
	store := &fakeClasses{err: boom}
	w := StartClassCreate(store, 1, monday, nil)
	_ = w.SelectPackage(models.PackageBasic2H)
	_ = w.Next()
	_ = w.SelectDate(w.Dates()[0])
	_ = w.SelectTime("08:00")
	_ = w.Next()

	_, err := w.Confirm(context.Background())
	if !errors.Is(err, ErrConfirmationFailed) || !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if w.Step() != StepConfirmation || w.Closed() {
		t.Fatalf("step = %v, closed = %v", w.Step(), w.Closed())
	}

	store.err = nil
	if _, err := w.Confirm(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestClassCreate_AbandonWritesNothing(t *testing.T) {
	store := &fakeClasses{}
	w := StartClassCreate(store, 1, monday, nil)
	_ = w.SelectPackage(models.PackageBasic2H)
	_ = w.Next()
	w.Abandon()

	if err := w.SelectTime("08:00"); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatal("abandoned wizard stored data")
	}
}

func TestAppointmentEdit(t *testing.T) {
	oldLicense := "A2"
	appt := &models.Appointment{
		ID:            7,
		UserID:        3,
		Type:          models.PracticalExam,
		LicenseTypeID: &oldLicense,
		ScheduledDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		ScheduledTime: "10:00",
		Status:        models.StatusConfirmed,
	}
	store := &fakeAppointments{appt: appt}
	catalog := fakeCatalog{{ID: "A2", Name: "A2"}, {ID: "B", Name: "B"}}
	ctx := context.Background()

	if _, err := StartAppointmentEdit(ctx, store, catalog, 99, monday, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing appointment: err = %v", err)
	}

	w, err := StartAppointmentEdit(ctx, store, catalog, 7, monday, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if w.SelectedLicense() != nil {
		t.Fatal("nothing must be preselected")
	}
	if err := w.Next(); !errors.Is(err, ErrIncompleteStep) {
		t.Fatalf("next without license: err = %v", err)
	}
	if err := w.SelectLicense("ZZ"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("unknown license: err = %v", err)
	}
	for _, d := range w.Dates() {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			t.Fatalf("weekend offered: %v", d)
		}
	}

	_ = w.SelectLicense("B")
	_ = w.Next()
	newDay := w.Dates()[1]
	_ = w.SelectDate(newDay)
	_ = w.SelectTime("16:30")
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}

	sum, err := w.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Original.License == nil || sum.Original.License.ID != "A2" || sum.Original.Time != "10:00" {
		t.Fatalf("original side = %+v", sum.Original)
	}
	if sum.New.License.ID != "B" || !sum.New.Date.Equal(newDay) || sum.New.Time != "16:30" {
		t.Fatalf("new side = %+v", sum.New)
	}
	if store.rescheduled != 0 {
		t.Fatal("nothing may be stored before confirm")
	}

	got, err := w.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if store.rescheduled != 1 || *store.appt.LicenseTypeID != "B" || store.appt.ScheduledTime != "16:30" {
		t.Fatalf("stored = %+v", store.appt)
	}
	if got.Status != models.StatusConfirmed {
		t.Fatalf("status changed to %s", got.Status)
	}
}

func TestAppointmentEdit_ConfirmFailure(t *testing.T) {
	store := &fakeAppointments{appt: &models.Appointment{ID: 1}}
	w, err := StartAppointmentEdit(context.Background(), store, fakeCatalog{{ID: "B"}}, 1, monday, nil)
	if err != nil {
		t.Fatal(err)
	}
	_ = w.SelectLicense("B")
	_ = w.Next()
	_ = w.SelectDate(w.Dates()[0])
	_ = w.SelectTime("08:30")
	_ = w.Next()

	store.appt = nil // запись удалили, пока мастер был открыт
	if _, err := w.Confirm(context.Background()); !errors.Is(err, ErrConfirmationFailed) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if w.Step() != StepConfirmation {
		t.Fatalf("step = %v", w.Step())
	}
}
