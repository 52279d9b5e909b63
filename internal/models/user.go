package models

import "time"

type Role string

const (
	Student       Role = "STUDENT"
	Instructor    Role = "INSTRUCTOR"
	Examiner      Role = "EXAMINER"
	Admin         Role = "ADMIN"
	MedicalDoctor Role = "MEDICAL_DOCTOR"
)

func (r Role) Valid() bool {
	switch r {
	case Student, Instructor, Examiner, Admin, MedicalDoctor:
		return true
	}
	return false
}

// User — учётная запись автошколы. PasswordHash никогда не хранит пароль в открытом виде.
type User struct {
	ID             int64
	Email          string
	DNI            string
	PasswordHash   string
	FirstName      string
	LastName       string
	Phone          string
	Address        string
	BirthDate      *time.Time
	Role           Role
	IsActive       bool
	TelegramChatID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
