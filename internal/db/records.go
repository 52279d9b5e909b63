package db

import (
	"database/sql"
	"time"
)

// Записи — строки таблиц как есть, до маппинга в доменные сущности.

type UserRecord struct {
	ID             int64
	Email          string
	DNI            string
	PasswordHash   string
	FirstName      string
	LastName       string
	Phone          string
	Address        string
	BirthDate      sql.NullTime
	Role           string
	IsActive       bool
	TelegramChatID sql.NullInt64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type LicenseTypeRecord struct {
	ID                    string
	Name                  string
	Description           string
	Category              string
	MinAge                int
	RequiresTheoryExam    bool
	RequiresPracticalExam bool
	RequiresMedicalExam   bool
	ValidityYears         int
	Price                 float64
	IsActive              bool
}

type AppointmentRecord struct {
	ID                  int64
	UserID              int64
	Type                string
	LicenseTypeID       sql.NullString
	ScheduledDate       time.Time
	ScheduledTime       string
	Location            string
	Status              string
	ExaminerID          sql.NullInt64
	InstructorID        sql.NullInt64
	MedicalEvaluationID sql.NullInt64
	Notes               string
	ReminderSent        bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type DrivingClassRecord struct {
	ID             int64
	StudentID      int64
	InstructorID   sql.NullInt64
	PackageType    string
	TotalHours     int
	CompletedHours int
	ScheduledDate  time.Time
	ScheduledTime  string
	Status         string
	Location       string
	VehicleType    string
	Price          float64
	Notes          string
	CreatedAt      time.Time
}

type MedicalEvaluationRecord struct {
	ID                  int64
	AppointmentID       int64
	UserID              int64
	DoctorID            sql.NullInt64
	VisionResult        string
	HearingResult       string
	MotorResult         string
	PsychologicalResult string
	BloodType           string
	Observations        string
	IsFit               bool
	EvaluatedAt         time.Time
}
