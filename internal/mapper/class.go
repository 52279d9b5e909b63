package mapper

import (
	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/models"
)

// Строковые токены, в которых driving_classes хранит пакет, статус и тип транспорта.
const (
	tokenPackage2H     = "2h"
	tokenPackage4H     = "4h"
	tokenPackageCustom = "custom"

	tokenStatusScheduled  = "scheduled"
	tokenStatusInProgress = "in_progress"
	tokenStatusCompleted  = "completed"
	tokenStatusCancelled  = "cancelled"

	tokenCarManual    = "car_manual"
	tokenCarAutomatic = "car_automatic"
	tokenMotorcycle   = "motorcycle"
)

// PackageFromToken — точное совпадение, всё прочее считается CUSTOM.
func PackageFromToken(s string) models.PackageType {
	switch s {
	case tokenPackage2H:
		return models.PackageBasic2H
	case tokenPackage4H:
		return models.PackageStandard4H
	}
	return models.PackageCustom
}

func PackageToken(p models.PackageType) string {
	switch p {
	case models.PackageBasic2H:
		return tokenPackage2H
	case models.PackageStandard4H:
		return tokenPackage4H
	}
	return tokenPackageCustom
}

// ClassStatusFromToken — неизвестная строка трактуется как SCHEDULED.
func ClassStatusFromToken(s string) models.ClassStatus {
	switch s {
	case tokenStatusInProgress:
		return models.ClassInProgress
	case tokenStatusCompleted:
		return models.ClassCompleted
	case tokenStatusCancelled:
		return models.ClassCancelled
	}
	return models.ClassScheduled
}

// ClassStatusTokens — все токены, которые ClassStatusFromToken распознаёт.
func ClassStatusTokens() []string {
	return []string{tokenStatusScheduled, tokenStatusInProgress, tokenStatusCompleted, tokenStatusCancelled}
}

func ClassStatusToken(s models.ClassStatus) string {
	switch s {
	case models.ClassInProgress:
		return tokenStatusInProgress
	case models.ClassCompleted:
		return tokenStatusCompleted
	case models.ClassCancelled:
		return tokenStatusCancelled
	}
	return tokenStatusScheduled
}

// VehicleFromToken — неизвестная строка трактуется как CAR_MANUAL.
func VehicleFromToken(s string) models.VehicleType {
	switch s {
	case tokenCarAutomatic:
		return models.CarAutomatic
	case tokenMotorcycle:
		return models.Motorcycle
	}
	return models.CarManual
}

func VehicleToken(v models.VehicleType) string {
	switch v {
	case models.CarAutomatic:
		return tokenCarAutomatic
	case models.Motorcycle:
		return tokenMotorcycle
	}
	return tokenCarManual
}

// DrivingClassToDomain нормализует сырые строки; цена берётся из пакета, а не из записи.
func DrivingClassToDomain(r db.DrivingClassRecord) models.DrivingClass {
	pkg := PackageFromToken(r.PackageType)
	return models.DrivingClass{
		ID:             r.ID,
		StudentID:      r.StudentID,
		InstructorID:   int64Ptr(r.InstructorID),
		Package:        pkg,
		TotalHours:     r.TotalHours,
		CompletedHours: r.CompletedHours,
		ScheduledDate:  r.ScheduledDate,
		ScheduledTime:  r.ScheduledTime,
		Status:         ClassStatusFromToken(r.Status),
		Location:       r.Location,
		Vehicle:        VehicleFromToken(r.VehicleType),
		Price:          pkg.Price(),
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
	}
}

// DrivingClassToRecord пишет токены, которые понимает DrivingClassToDomain, и перезаписывает цену по пакету.
func DrivingClassToRecord(c models.DrivingClass) db.DrivingClassRecord {
	return db.DrivingClassRecord{
		ID:             c.ID,
		StudentID:      c.StudentID,
		InstructorID:   nullInt64(c.InstructorID),
		PackageType:    PackageToken(c.Package),
		TotalHours:     c.TotalHours,
		CompletedHours: c.CompletedHours,
		ScheduledDate:  c.ScheduledDate,
		ScheduledTime:  c.ScheduledTime,
		Status:         ClassStatusToken(c.Status),
		Location:       c.Location,
		VehicleType:    VehicleToken(c.Vehicle),
		Price:          c.Package.Price(),
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
	}
}
