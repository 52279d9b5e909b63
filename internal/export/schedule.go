package export

import (
	"strconv"
	"time"

	"github.com/Spok95/driving-school-bot/internal/models"
)

const (
	SheetAppointments = "Appointments"
	SheetClasses      = "Classes"
)

// Schedule — всё, что попадает в выгрузку расписания за период.
type Schedule struct {
	From, To     time.Time
	Appointments []models.Appointment
	Classes      []models.DrivingClass
	Users        map[int64]models.User // для ФИО учеников и сотрудников
}

// ScheduleWorkbook строит книгу с листами записей и занятий. Порядок строк — как во входных срезах.
func ScheduleWorkbook(s Schedule) (*Workbook, error) {
	appts := SheetDef{
		Title:  SheetAppointments,
		Header: []string{"ID", "Дата", "Время", "Тип", "Статус", "Ученик", "Лицензия", "Экзаменатор", "Инструктор", "Место"},
	}
	for _, a := range s.Appointments {
		license := ""
		if a.LicenseTypeID != nil {
			license = *a.LicenseTypeID
		}
		appts.Rows = append(appts.Rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.ScheduledDate.Format("02.01.2006"),
			a.ScheduledTime,
			string(a.Type),
			string(a.Status),
			s.userName(&a.UserID),
			license,
			s.userName(a.ExaminerID),
			s.userName(a.InstructorID),
			a.Location,
		})
	}

	classes := SheetDef{
		Title:  SheetClasses,
		Header: []string{"ID", "Дата", "Время", "Пакет", "Часы", "Пройдено", "Статус", "Ученик", "Инструктор", "Транспорт", "Цена"},
	}
	for _, c := range s.Classes {
		classes.Rows = append(classes.Rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.ScheduledDate.Format("02.01.2006"),
			c.ScheduledTime,
			c.Package.Label(),
			strconv.Itoa(c.TotalHours),
			strconv.Itoa(c.CompletedHours),
			string(c.Status),
			s.userName(&c.StudentID),
			s.userName(c.InstructorID),
			string(c.Vehicle),
			strconv.FormatFloat(c.Price, 'f', 2, 64),
		})
	}

	return NewWorkbook([]SheetDef{appts, classes})
}

func (s Schedule) userName(id *int64) string {
	if id == nil {
		return ""
	}
	if u, ok := s.Users[*id]; ok {
		return u.FullName()
	}
	return "#" + strconv.FormatInt(*id, 10)
}
