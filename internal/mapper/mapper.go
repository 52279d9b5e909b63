// Package mapper переводит записи хранилища в доменные сущности и обратно.
// Функции чистые: без ввода-вывода и без ошибок.
package mapper

import (
	"database/sql"
	"time"

	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/models"
)

func UserToDomain(r db.UserRecord) models.User {
	return models.User{
		ID:             r.ID,
		Email:          r.Email,
		DNI:            r.DNI,
		PasswordHash:   r.PasswordHash,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		Address:        r.Address,
		BirthDate:      timePtr(r.BirthDate),
		Role:           models.Role(r.Role),
		IsActive:       r.IsActive,
		TelegramChatID: int64Ptr(r.TelegramChatID),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func UserToRecord(u models.User) db.UserRecord {
	return db.UserRecord{
		ID:             u.ID,
		Email:          u.Email,
		DNI:            u.DNI,
		PasswordHash:   u.PasswordHash,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Phone:          u.Phone,
		Address:        u.Address,
		BirthDate:      nullTime(u.BirthDate),
		Role:           string(u.Role),
		IsActive:       u.IsActive,
		TelegramChatID: nullInt64(u.TelegramChatID),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func LicenseTypeToDomain(r db.LicenseTypeRecord) models.LicenseType {
	return models.LicenseType{
		ID:                    r.ID,
		Name:                  r.Name,
		Description:           r.Description,
		Category:              models.LicenseCategory(r.Category),
		MinAge:                r.MinAge,
		RequiresTheoryExam:    r.RequiresTheoryExam,
		RequiresPracticalExam: r.RequiresPracticalExam,
		RequiresMedicalExam:   r.RequiresMedicalExam,
		ValidityYears:         r.ValidityYears,
		Price:                 r.Price,
		IsActive:              r.IsActive,
	}
}

func LicenseTypeToRecord(l models.LicenseType) db.LicenseTypeRecord {
	return db.LicenseTypeRecord{
		ID:                    l.ID,
		Name:                  l.Name,
		Description:           l.Description,
		Category:              string(l.Category),
		MinAge:                l.MinAge,
		RequiresTheoryExam:    l.RequiresTheoryExam,
		RequiresPracticalExam: l.RequiresPracticalExam,
		RequiresMedicalExam:   l.RequiresMedicalExam,
		ValidityYears:         l.ValidityYears,
		Price:                 l.Price,
		IsActive:              l.IsActive,
	}
}

func AppointmentToDomain(r db.AppointmentRecord) models.Appointment {
	return models.Appointment{
		ID:                  r.ID,
		UserID:              r.UserID,
		Type:                models.AppointmentType(r.Type),
		LicenseTypeID:       stringPtr(r.LicenseTypeID),
		ScheduledDate:       r.ScheduledDate,
		ScheduledTime:       r.ScheduledTime,
		Location:            r.Location,
		Status:              models.AppointmentStatus(r.Status),
		ExaminerID:          int64Ptr(r.ExaminerID),
		InstructorID:        int64Ptr(r.InstructorID),
		MedicalEvaluationID: int64Ptr(r.MedicalEvaluationID),
		Notes:               r.Notes,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// AppointmentToRecord — флаг reminder_sent домену не принадлежит и всегда сбрасывается.
func AppointmentToRecord(a models.Appointment) db.AppointmentRecord {
	return db.AppointmentRecord{
		ID:                  a.ID,
		UserID:              a.UserID,
		Type:                string(a.Type),
		LicenseTypeID:       nullString(a.LicenseTypeID),
		ScheduledDate:       a.ScheduledDate,
		ScheduledTime:       a.ScheduledTime,
		Location:            a.Location,
		Status:              string(a.Status),
		ExaminerID:          nullInt64(a.ExaminerID),
		InstructorID:        nullInt64(a.InstructorID),
		MedicalEvaluationID: nullInt64(a.MedicalEvaluationID),
		Notes:               a.Notes,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func MedicalEvaluationToDomain(r db.MedicalEvaluationRecord) models.MedicalEvaluation {
	return models.MedicalEvaluation{
		ID:                  r.ID,
		AppointmentID:       r.AppointmentID,
		UserID:              r.UserID,
		DoctorID:            int64Ptr(r.DoctorID),
		VisionResult:        models.MedicalResult(r.VisionResult),
		HearingResult:       models.MedicalResult(r.HearingResult),
		MotorResult:         models.MedicalResult(r.MotorResult),
		PsychologicalResult: models.MedicalResult(r.PsychologicalResult),
		BloodType:           r.BloodType,
		Observations:        r.Observations,
		IsFit:               r.IsFit,
		EvaluatedAt:         r.EvaluatedAt,
	}
}

func MedicalEvaluationToRecord(m models.MedicalEvaluation) db.MedicalEvaluationRecord {
	return db.MedicalEvaluationRecord{
		ID:                  m.ID,
		AppointmentID:       m.AppointmentID,
		UserID:              m.UserID,
		DoctorID:            nullInt64(m.DoctorID),
		VisionResult:        string(m.VisionResult),
		HearingResult:       string(m.HearingResult),
		MotorResult:         string(m.MotorResult),
		PsychologicalResult: string(m.PsychologicalResult),
		BloodType:           m.BloodType,
		Observations:        m.Observations,
		IsFit:               m.IsFit,
		EvaluatedAt:         m.EvaluatedAt,
	}
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
