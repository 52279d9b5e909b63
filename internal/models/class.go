package models

import (
	"fmt"
	"time"
)

type PackageType string

const (
	PackageBasic2H    PackageType = "BASIC_2H"
	PackageStandard4H PackageType = "STANDARD_4H"
	PackageCustom     PackageType = "CUSTOM"
)

// Price — стоимость пакета занятий. Единственный источник цены для DrivingClass.
func (p PackageType) Price() float64 {
	switch p {
	case PackageBasic2H:
		return 65.0
	case PackageStandard4H:
		return 125.0
	}
	return 0.0
}

func (p PackageType) Hours() int {
	switch p {
	case PackageBasic2H:
		return 2
	case PackageStandard4H:
		return 4
	}
	return 0
}

func (p PackageType) Label() string {
	switch p {
	case PackageBasic2H:
		return "Базовый (2 ч)"
	case PackageStandard4H:
		return "Стандарт (4 ч)"
	}
	return "Индивидуальный"
}

type ClassStatus string

const (
	ClassScheduled  ClassStatus = "SCHEDULED"
	ClassInProgress ClassStatus = "IN_PROGRESS"
	ClassCompleted  ClassStatus = "COMPLETED"
	ClassCancelled  ClassStatus = "CANCELLED"
)

type VehicleType string

const (
	CarManual    VehicleType = "CAR_MANUAL"
	CarAutomatic VehicleType = "CAR_AUTOMATIC"
	Motorcycle   VehicleType = "MOTORCYCLE"
)

type DrivingClass struct {
	ID             int64
	StudentID      int64
	InstructorID   *int64
	Package        PackageType
	TotalHours     int
	CompletedHours int
	ScheduledDate  time.Time
	ScheduledTime  string
	Status         ClassStatus
	Location       string
	Vehicle        VehicleType
	Price          float64 // выводится из Package при маппинге
	Notes          string
	CreatedAt      time.Time
}

// ParsePackageType — строгий разбор для пользовательского ввода (callback-данные и т.п.).
func ParsePackageType(s string) (PackageType, error) {
	switch p := PackageType(s); p {
	case PackageBasic2H, PackageStandard4H, PackageCustom:
		return p, nil
	}
	return "", fmt.Errorf("unknown package type %q", s)
}
