// Package booking — пошаговые мастера записи: перенос записи на экзамен и покупка пакета занятий.
// Всё промежуточное состояние живёт в памяти мастера, в хранилище пишет только Confirm.
package booking

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Step int

const (
	StepSelection    Step = 1
	StepDateTime     Step = 2
	StepConfirmation Step = 3
)

func (s Step) String() string {
	switch s {
	case StepSelection:
		return "selection"
	case StepDateTime:
		return "datetime"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

var (
	ErrIncompleteStep     = errors.New("current step has no selection")
	ErrWrongStep          = errors.New("operation not allowed on current step")
	ErrUnknownOption      = errors.New("option is not offered on this step")
	ErrConfirmationFailed = errors.New("confirmation failed")
	ErrNotFound           = errors.New("record not found")
	ErrClosed             = errors.New("wizard is finished")
)

// wizard — общий для обоих мастеров шаг 2 и переходы между шагами.
type wizard struct {
	step   Step
	closed bool

	dates []time.Time
	times []string
	date  *time.Time
	hhmm  string

	log *zap.Logger
}

func newWizard(workflow string, dates []time.Time, times []string, log *zap.Logger) wizard {
	if log == nil {
		log = zap.NewNop()
	}
	return wizard{
		step:  StepSelection,
		dates: dates,
		times: times,
		log:   log.With(zap.String("workflow", workflow), zap.String("session", uuid.NewString())),
	}
}

func (w *wizard) Step() Step   { return w.step }
func (w *wizard) Closed() bool { return w.closed }

func (w *wizard) Dates() []time.Time { return slices.Clone(w.dates) }
func (w *wizard) Times() []string    { return slices.Clone(w.times) }

func (w *wizard) SelectedDate() (time.Time, bool) {
	if w.date == nil {
		return time.Time{}, false
	}
	return *w.date, true
}

func (w *wizard) SelectedTime() string { return w.hhmm }

func (w *wizard) at(s Step) error {
	if w.closed {
		return ErrClosed
	}
	if w.step != s {
		return ErrWrongStep
	}
	return nil
}

// SelectDate принимает только дату из предложенного списка (сравнение по календарному дню).
func (w *wizard) SelectDate(d time.Time) error {
	if err := w.at(StepDateTime); err != nil {
		return err
	}
	for _, c := range w.dates {
		if sameDay(c, d) {
			day := c
			w.date = &day
			return nil
		}
	}
	return ErrUnknownOption
}

func (w *wizard) SelectTime(hhmm string) error {
	if err := w.at(StepDateTime); err != nil {
		return err
	}
	if !slices.Contains(w.times, hhmm) {
		return ErrUnknownOption
	}
	w.hhmm = hhmm
	return nil
}

// advance переводит на следующий шаг, если текущий заполнен.
func (w *wizard) advance(selectionDone bool) error {
	if w.closed {
		return ErrClosed
	}
	switch w.step {
	case StepSelection:
		if !selectionDone {
			return ErrIncompleteStep
		}
	case StepDateTime:
		if w.date == nil || w.hhmm == "" {
			return ErrIncompleteStep
		}
	default:
		return ErrWrongStep
	}
	w.step++
	w.log.Debug("wizard step", zap.Stringer("step", w.step))
	return nil
}

// Back возвращает на предыдущий шаг, выбранные значения сохраняются.
func (w *wizard) Back() error {
	if w.closed {
		return ErrClosed
	}
	if w.step == StepSelection {
		return ErrWrongStep
	}
	w.step--
	return nil
}

// Abandon закрывает мастер без записи в хранилище.
func (w *wizard) Abandon() {
	if !w.closed {
		w.closed = true
		w.log.Debug("wizard abandoned", zap.Stringer("step", w.step))
	}
}
