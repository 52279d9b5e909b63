package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("канал закрыт")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("таймаут ожидания")
	}
	var zero T
	return zero
}

func TestHub_PublishNotifiesMatchingTables(t *testing.T) {
	h := NewHub()
	classes, unsubClasses := h.Subscribe(DrivingClasses)
	defer unsubClasses()
	catalog, unsubCatalog := h.Subscribe(LicenseTypes)
	defer unsubCatalog()

	h.Publish(DrivingClasses)
	recv(t, classes)

	select {
	case <-catalog:
		t.Fatal("license_types не должны получать сигнал о driving_classes")
	default:
	}
}

func TestHub_CascadesFollowForeignKeys(t *testing.T) {
	cases := []struct {
		name      string
		published string
		watched   string
	}{
		{"user_delete_hits_appointments", Users, Appointments},
		{"user_delete_hits_evaluations", Users, MedicalEvaluations},
		{"user_delete_hits_classes", Users, DrivingClasses},
		{"appointment_delete_hits_evaluations", Appointments, MedicalEvaluations},
		{"license_delete_nulls_appointments", LicenseTypes, Appointments},
		{"license_delete_reaches_evaluations_transitively", LicenseTypes, MedicalEvaluations},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHub()
			ch, unsub := h.Subscribe(tc.watched)
			defer unsub()
			h.Publish(tc.published)
			recv(t, ch)
		})
	}
}

func TestHub_BurstIsCoalesced(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe(Users)
	defer unsub()
	for i := 0; i < 10; i++ {
		h.Publish(Users)
	}
	recv(t, ch)
	select {
	case <-ch:
		t.Fatal("ожидали один сигнал на пачку")
	default:
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe(Users)
	unsub()
	unsub() // повторная отписка безопасна
	h.Publish(Users)
	select {
	case <-ch:
		t.Fatal("после отписки сигналов быть не должно")
	default:
	}
}

func TestWatch_EmitsInitialAndAfterChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	var calls atomic.Int32
	snaps := Watch(ctx, h, func(context.Context) ([]int, error) {
		n := int(calls.Add(1))
		return []int{n}, nil
	}, Appointments)

	first := recv(t, snaps)
	if len(first.Items) != 1 || first.Items[0] != 1 {
		t.Fatalf("первый снимок: %#v", first)
	}

	h.Publish(Users) // каскадом задевает appointments
	second := recv(t, snaps)
	if second.Items[0] != 2 {
		t.Fatalf("второй снимок: %#v", second)
	}
}

func TestWatch_PropagatesQueryError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boom := errors.New("boom")
	snaps := Watch(ctx, NewHub(), func(context.Context) ([]string, error) { return nil, boom }, Users)
	if s := recv(t, snaps); !errors.Is(s.Err, boom) {
		t.Fatalf("ожидали ошибку запроса, получили %v", s.Err)
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	snaps := Watch(ctx, h, func(context.Context) ([]int, error) { return nil, nil }, Users)
	recv(t, snaps)
	cancel()

	select {
	case _, ok := <-snaps:
		if ok {
			t.Fatal("после отмены новых снимков быть не должно")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("канал не закрылся после отмены")
	}
}
