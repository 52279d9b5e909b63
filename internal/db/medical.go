package db

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var medicalColumns = []string{
	"id", "appointment_id", "user_id", "doctor_id", "vision_result", "hearing_result", "motor_result",
	"psychological_result", "blood_type", "observations", "is_fit", "evaluated_at",
}

func scanMedicalEvaluation(r rowScanner) (MedicalEvaluationRecord, error) {
	var m MedicalEvaluationRecord
	err := r.Scan(&m.ID, &m.AppointmentID, &m.UserID, &m.DoctorID, &m.VisionResult, &m.HearingResult, &m.MotorResult,
		&m.PsychologicalResult, &m.BloodType, &m.Observations, &m.IsFit, &m.EvaluatedAt)
	return m, err
}

func selectMedical() sq.SelectBuilder {
	return psql.Select(medicalColumns...).From("medical_evaluations")
}

func GetMedicalEvaluationByID(ctx context.Context, q Querier, id int64) (*MedicalEvaluationRecord, error) {
	return selectOne(ctx, q, selectMedical().Where(sq.Eq{"id": id}), scanMedicalEvaluation)
}

func GetMedicalEvaluationByAppointmentID(ctx context.Context, q Querier, appointmentID int64) (*MedicalEvaluationRecord, error) {
	return selectOne(ctx, q, selectMedical().Where(sq.Eq{"appointment_id": appointmentID}), scanMedicalEvaluation)
}

// ListMedicalEvaluationsByUser — от новых к старым.
func ListMedicalEvaluationsByUser(ctx context.Context, q Querier, userID int64) ([]MedicalEvaluationRecord, error) {
	return selectList(ctx, q, selectMedical().Where(sq.Eq{"user_id": userID}).OrderBy("evaluated_at DESC", "id DESC"), scanMedicalEvaluation)
}

func InsertMedicalEvaluation(ctx context.Context, q Querier, m MedicalEvaluationRecord) (int64, error) {
	evaluatedAt := m.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now()
	}
	cols := []string{"appointment_id", "user_id", "doctor_id", "vision_result", "hearing_result", "motor_result",
		"psychological_result", "blood_type", "observations", "is_fit", "evaluated_at"}
	vals := []any{m.AppointmentID, m.UserID, m.DoctorID, m.VisionResult, m.HearingResult, m.MotorResult,
		m.PsychologicalResult, m.BloodType, m.Observations, m.IsFit, evaluatedAt}

	b := psql.Insert("medical_evaluations")
	if m.ID == 0 {
		return insertReturningID(ctx, q, b.Columns(cols...).Values(vals...))
	}
	b = b.Columns(append([]string{"id"}, cols...)...).Values(append([]any{m.ID}, vals...)...).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			appointment_id = excluded.appointment_id, user_id = excluded.user_id, doctor_id = excluded.doctor_id,
			vision_result = excluded.vision_result, hearing_result = excluded.hearing_result,
			motor_result = excluded.motor_result, psychological_result = excluded.psychological_result,
			blood_type = excluded.blood_type, observations = excluded.observations, is_fit = excluded.is_fit,
			evaluated_at = excluded.evaluated_at`)
	return upsertReturningID(ctx, q, "medical_evaluations", b)
}

func UpdateMedicalEvaluation(ctx context.Context, q Querier, m MedicalEvaluationRecord) (int64, error) {
	return exec(ctx, q, `
		UPDATE medical_evaluations
		SET appointment_id = $1, user_id = $2, doctor_id = $3, vision_result = $4, hearing_result = $5,
		    motor_result = $6, psychological_result = $7, blood_type = $8, observations = $9, is_fit = $10
		WHERE id = $11`,
		m.AppointmentID, m.UserID, m.DoctorID, m.VisionResult, m.HearingResult,
		m.MotorResult, m.PsychologicalResult, m.BloodType, m.Observations, m.IsFit, m.ID)
}

// UpdateMedicalEvaluationResult — только итоговое заключение и комментарий врача.
func UpdateMedicalEvaluationResult(ctx context.Context, q Querier, id int64, isFit bool, observations string) (int64, error) {
	return exec(ctx, q, `UPDATE medical_evaluations SET is_fit = $1, observations = $2 WHERE id = $3`, isFit, observations, id)
}

func DeleteMedicalEvaluation(ctx context.Context, q Querier, id int64) (int64, error) {
	return exec(ctx, q, `DELETE FROM medical_evaluations WHERE id = $1`, id)
}
