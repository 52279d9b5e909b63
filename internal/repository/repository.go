// Package repository — фасад над db и mapper, с которым работает остальной код.
// Каждый метод ждёт защёлку готовности, промахи возвращаются как nil, nil,
// ошибки хранилища пробрасываются без обёрток.
package repository

import (
	"context"
	"database/sql"

	"github.com/Spok95/driving-school-bot/internal/live"
	"github.com/Spok95/driving-school-bot/internal/readiness"
)

type Store struct {
	Users        *UserRepository
	LicenseTypes *LicenseTypeRepository
	Appointments *AppointmentRepository
	Classes      *DrivingClassRepository
	Medical      *MedicalEvaluationRepository
}

func New(database *sql.DB, hub *live.Hub, ready *readiness.Latch) *Store {
	b := base{db: database, hub: hub, ready: ready}
	return &Store{
		Users:        &UserRepository{b},
		LicenseTypes: &LicenseTypeRepository{b},
		Appointments: &AppointmentRepository{b},
		Classes:      &DrivingClassRepository{b},
		Medical:      &MedicalEvaluationRepository{b},
	}
}

type base struct {
	db    *sql.DB
	hub   *live.Hub
	ready *readiness.Latch
}

func (b base) wait(ctx context.Context) error {
	return b.ready.Wait(ctx)
}

// changed оповещает подписчиков, если запись действительно что-то затронула.
func (b base) changed(n int64, tables ...string) {
	if n > 0 {
		b.hub.Publish(tables...)
	}
}

func mapAll[R, D any](rs []R, f func(R) D) []D {
	out := make([]D, 0, len(rs))
	for _, r := range rs {
		out = append(out, f(r))
	}
	return out
}

func mapOne[R, D any](r *R, f func(R) D) *D {
	if r == nil {
		return nil
	}
	d := f(*r)
	return &d
}
