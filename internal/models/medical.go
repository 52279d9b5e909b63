package models

import "time"

type MedicalResult string

const (
	ResultPending  MedicalResult = "PENDIENTE"
	ResultApproved MedicalResult = "APROBADO"
	ResultRejected MedicalResult = "NO_APROBADO"
)

type MedicalEvaluation struct {
	ID                  int64
	AppointmentID       int64
	UserID              int64
	DoctorID            *int64
	VisionResult        MedicalResult
	HearingResult       MedicalResult
	MotorResult         MedicalResult
	PsychologicalResult MedicalResult
	BloodType           string
	Observations        string
	IsFit               bool
	EvaluatedAt         time.Time
}

// AllApproved — все четыре критерия со статусом APROBADO.
func (m MedicalEvaluation) AllApproved() bool {
	for _, r := range []MedicalResult{m.VisionResult, m.HearingResult, m.MotorResult, m.PsychologicalResult} {
		if r != ResultApproved {
			return false
		}
	}
	return true
}
