package booking

import (
	"fmt"
	"time"
)

// DateRule — какие дни недели недоступны для записи.
type DateRule int

const (
	WeekendsOff DateRule = iota // суббота и воскресенье
	SundaysOff                  // только воскресенье
)

const (
	dateHorizonDays = 14
	maxDates        = 10
)

func (r DateRule) allowed(d time.Time) bool {
	switch d.Weekday() {
	case time.Sunday:
		return false
	case time.Saturday:
		return r != WeekendsOff
	}
	return true
}

// AvailableDates — ближайшие 14 календарных дней начиная с завтра.
// Выходной день сдвигается на следующий разрешённый, повторы выбрасываются, не больше 10 дат.
// Даты — полночь в часовом поясе from.
func AvailableDates(from time.Time, rule DateRule) []time.Time {
	y, m, d := from.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, from.Location())

	out := make([]time.Time, 0, maxDates)
	seen := make(map[time.Time]struct{}, dateHorizonDays)
	for i := 1; i <= dateHorizonDays && len(out) < maxDates; i++ {
		day := today.AddDate(0, 0, i)
		for !rule.allowed(day) {
			day = day.AddDate(0, 0, 1)
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	return out
}

var (
	appointmentTimes = halfHourSlots([2]int{8 * 60, 11*60 + 30}, [2]int{15 * 60, 18*60 + 30})
	classTimes       = halfHourSlots([2]int{8 * 60, 12*60 + 30}, [2]int{15 * 60, 19*60 + 30})
)

// AppointmentTimes — 08:00–11:30 и 15:00–18:30 с шагом 30 минут.
func AppointmentTimes() []string { return append([]string(nil), appointmentTimes...) }

// ClassTimes — 08:00–12:30 и 15:00–19:30 с шагом 30 минут.
func ClassTimes() []string { return append([]string(nil), classTimes...) }

// halfHourSlots — сегменты [первый, последний] в минутах от полуночи, обе границы включены.
func halfHourSlots(segments ...[2]int) []string {
	var out []string
	for _, seg := range segments {
		for m := seg[0]; m <= seg[1]; m += 30 {
			out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
