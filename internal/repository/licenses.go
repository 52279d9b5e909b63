package repository

import (
	"context"

	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/live"
	"github.com/Spok95/driving-school-bot/internal/mapper"
	"github.com/Spok95/driving-school-bot/internal/models"
)

type LicenseTypeRepository struct{ base }

func (r *LicenseTypeRepository) GetByID(ctx context.Context, id string) (*models.LicenseType, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	rec, err := db.GetLicenseTypeByID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return mapOne(rec, mapper.LicenseTypeToDomain), nil
}

func (r *LicenseTypeRepository) List(ctx context.Context, includeInactive bool) ([]models.LicenseType, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	recs, err := db.ListLicenseTypes(ctx, r.db, includeInactive)
	if err != nil {
		return nil, err
	}
	return mapAll(recs, mapper.LicenseTypeToDomain), nil
}

func (r *LicenseTypeRepository) ListActive(ctx context.Context) ([]models.LicenseType, error) {
	return r.List(ctx, false)
}

func (r *LicenseTypeRepository) Upsert(ctx context.Context, l models.LicenseType) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpsertLicenseType(ctx, r.db, mapper.LicenseTypeToRecord(l))
	if err != nil {
		return err
	}
	r.changed(n, live.LicenseTypes)
	return nil
}

func (r *LicenseTypeRepository) Update(ctx context.Context, l models.LicenseType) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpdateLicenseType(ctx, r.db, mapper.LicenseTypeToRecord(l))
	if err != nil {
		return err
	}
	r.changed(n, live.LicenseTypes)
	return nil
}

func (r *LicenseTypeRepository) SetActive(ctx context.Context, id string, active bool) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.SetLicenseTypeActive(ctx, r.db, id, active)
	if err != nil {
		return err
	}
	r.changed(n, live.LicenseTypes)
	return nil
}

// Delete — ссылки из appointments обнуляются в БД.
func (r *LicenseTypeRepository) Delete(ctx context.Context, id string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.DeleteLicenseType(ctx, r.db, id)
	if err != nil {
		return err
	}
	r.changed(n, live.LicenseTypes)
	return nil
}

func (r *LicenseTypeRepository) WatchActive(ctx context.Context) <-chan live.Snapshot[models.LicenseType] {
	return live.Watch(ctx, r.hub, r.ListActive, live.LicenseTypes)
}
