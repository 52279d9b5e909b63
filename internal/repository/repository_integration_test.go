//go:build testutil
// +build testutil

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/live"
	"github.com/Spok95/driving-school-bot/internal/models"
	"github.com/Spok95/driving-school-bot/internal/readiness"
	"github.com/Spok95/driving-school-bot/internal/repository"
	"github.com/Spok95/driving-school-bot/internal/testutil/testdb"
)

func startStore(t *testing.T) (*repository.Store, *readiness.Latch) {
	t.Helper()
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)
	latch := readiness.New()
	return repository.New(h.DB, live.NewHub(), latch), latch
}

func next[T any](t *testing.T, ch <-chan live.Snapshot[T]) []T {
	t.Helper()
	select {
	case s, ok := <-ch:
		if !ok {
			t.Fatal("watch closed")
		}
		if s.Err != nil {
			t.Fatal(s.Err)
		}
		return s.Items
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot")
	}
	return nil
}

func TestRepository_WaitsForLatch(t *testing.T) {
	store, latch := startStore(t)

	done := make(chan error, 1)
	go func() {
		_, err := store.Users.GetByEmail(context.Background(), "nobody@school.test")
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("query ran before the latch opened")
	case <-time.After(100 * time.Millisecond):
	}

	latch.Open()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("query still blocked after latch opened")
	}
}

func TestRepository_WatchReflectsWrites(t *testing.T) {
	store, latch := startStore(t)
	latch.Open()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uid, err := store.Users.Insert(ctx, models.User{
		Email: "s@school.test", DNI: "1S", PasswordHash: "x", Role: models.Student, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	classes := store.Classes.WatchByStudent(ctx, uid)
	if got := next(t, classes); len(got) != 0 {
		t.Fatalf("initial snapshot = %+v", got)
	}

	cid, err := store.Classes.Insert(ctx, models.DrivingClass{
		StudentID: uid, Package: models.PackageStandard4H, TotalHours: 4,
		ScheduledDate: time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC), ScheduledTime: "09:00",
		Status: models.ClassScheduled, Vehicle: models.CarManual,
	})
	if err != nil {
		t.Fatal(err)
	}
	got := next(t, classes)
	if len(got) != 1 || got[0].ID != cid {
		t.Fatalf("after insert = %+v", got)
	}
	if got[0].Price != 125.0 || got[0].Package != models.PackageStandard4H {
		t.Fatalf("mapped class = %+v", got[0])
	}

	// удаление пользователя каскадом убирает занятия, и наблюдатель это видит
	if err := store.Users.Delete(ctx, uid); err != nil {
		t.Fatal(err)
	}
	if got := next(t, classes); len(got) != 0 {
		t.Fatalf("after cascade = %+v", got)
	}
}

func TestRepository_RescheduleMiss(t *testing.T) {
	store, latch := startStore(t)
	latch.Open()

	ok, err := store.Appointments.Reschedule(context.Background(), 404, nil, time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC), "09:00")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("reschedule of a missing appointment reported success")
	}
}

func TestRepository_ListByStatusIncludesLegacyRows(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)
	latch := readiness.New()
	latch.Open()
	store := repository.New(h.DB, live.NewHub(), latch)

	uid, err := store.Users.Insert(ctx, models.User{
		Email: "s@school.test", DNI: "1S", PasswordHash: "x", Role: models.Student, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, status := range []string{"scheduled", "pendiente", "completed"} {
		if _, err := db.InsertDrivingClass(ctx, h.DB, db.DrivingClassRecord{
			StudentID: uid, PackageType: "2h", TotalHours: 2, ScheduledDate: time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC),
			ScheduledTime: "09:00", Status: status, VehicleType: "car_manual", Price: 65,
		}); err != nil {
			t.Fatal(err)
		}
	}

	byStudent, err := store.Classes.ListByStudent(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	wantScheduled := 0
	for _, c := range byStudent {
		if c.Status == models.ClassScheduled {
			wantScheduled++
		}
	}

	tests := []struct {
		status models.ClassStatus
		want   int
	}{
		{models.ClassScheduled, wantScheduled},
		{models.ClassCompleted, 1},
		{models.ClassCancelled, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got, err := store.Classes.ListByStatus(ctx, tt.status)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Fatalf("ListByStatus(%s) = %d rows, want %d", tt.status, len(got), tt.want)
			}
		})
	}
	if wantScheduled != 2 {
		t.Fatalf("legacy status must read as SCHEDULED, got %d scheduled", wantScheduled)
	}
}
