package repository

import (
	"context"

	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/live"
	"github.com/Spok95/driving-school-bot/internal/mapper"
	"github.com/Spok95/driving-school-bot/internal/models"
)

type MedicalEvaluationRepository struct{ base }

func (r *MedicalEvaluationRepository) GetByID(ctx context.Context, id int64) (*models.MedicalEvaluation, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	rec, err := db.GetMedicalEvaluationByID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return mapOne(rec, mapper.MedicalEvaluationToDomain), nil
}

func (r *MedicalEvaluationRepository) GetByAppointmentID(ctx context.Context, appointmentID int64) (*models.MedicalEvaluation, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	rec, err := db.GetMedicalEvaluationByAppointmentID(ctx, r.db, appointmentID)
	if err != nil {
		return nil, err
	}
	return mapOne(rec, mapper.MedicalEvaluationToDomain), nil
}

// ListByUser — новые оценки первыми.
func (r *MedicalEvaluationRepository) ListByUser(ctx context.Context, userID int64) ([]models.MedicalEvaluation, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	recs, err := db.ListMedicalEvaluationsByUser(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	return mapAll(recs, mapper.MedicalEvaluationToDomain), nil
}

func (r *MedicalEvaluationRepository) Insert(ctx context.Context, m models.MedicalEvaluation) (int64, error) {
	if err := r.wait(ctx); err != nil {
		return 0, err
	}
	id, err := db.InsertMedicalEvaluation(ctx, r.db, mapper.MedicalEvaluationToRecord(m))
	if err != nil {
		return 0, err
	}
	r.hub.Publish(live.MedicalEvaluations)
	return id, nil
}

func (r *MedicalEvaluationRepository) Update(ctx context.Context, m models.MedicalEvaluation) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpdateMedicalEvaluation(ctx, r.db, mapper.MedicalEvaluationToRecord(m))
	if err != nil {
		return err
	}
	r.changed(n, live.MedicalEvaluations)
	return nil
}

func (r *MedicalEvaluationRepository) UpdateResult(ctx context.Context, id int64, isFit bool, observations string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpdateMedicalEvaluationResult(ctx, r.db, id, isFit, observations)
	if err != nil {
		return err
	}
	r.changed(n, live.MedicalEvaluations)
	return nil
}

func (r *MedicalEvaluationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.DeleteMedicalEvaluation(ctx, r.db, id)
	if err != nil {
		return err
	}
	r.changed(n, live.MedicalEvaluations)
	return nil
}

func (r *MedicalEvaluationRepository) WatchByUser(ctx context.Context, userID int64) <-chan live.Snapshot[models.MedicalEvaluation] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]models.MedicalEvaluation, error) {
		return r.ListByUser(ctx, userID)
	}, live.MedicalEvaluations)
}
