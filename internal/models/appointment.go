package models

import "time"

type AppointmentType string

const (
	MedicalExam   AppointmentType = "MEDICAL_EXAM"
	TheoryExam    AppointmentType = "THEORY_EXAM"
	PracticalExam AppointmentType = "PRACTICAL_EXAM"
	DrivingLesson AppointmentType = "DRIVING_CLASS"
	Consultation  AppointmentType = "CONSULTATION"
)

// AppointmentStatus — переходы между статусами не ограничены.
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "SCHEDULED"
	StatusConfirmed   AppointmentStatus = "CONFIRMED"
	StatusInProgress  AppointmentStatus = "IN_PROGRESS"
	StatusCompleted   AppointmentStatus = "COMPLETED"
	StatusCancelled   AppointmentStatus = "CANCELLED"
	StatusNoShow      AppointmentStatus = "NO_SHOW"
	StatusRescheduled AppointmentStatus = "RESCHEDULED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}

type Appointment struct {
	ID                  int64
	UserID              int64
	Type                AppointmentType
	LicenseTypeID       *string
	ScheduledDate       time.Time // только дата, 00:00 в локальной зоне
	ScheduledTime       string    // "HH:MM"
	Location            string
	Status              AppointmentStatus
	ExaminerID          *int64
	InstructorID        *int64
	MedicalEvaluationID *int64
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
