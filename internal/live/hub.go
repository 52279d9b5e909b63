// Package live — реактивные списки: каждая запись в хранилище публикует затронутую таблицу,
// подписчики перечитывают свои запросы.
package live

import (
	"sync"

	"github.com/Spok95/driving-school-bot/internal/metrics"
)

const (
	Users              = "users"
	LicenseTypes       = "license_types"
	Appointments       = "appointments"
	DrivingClasses     = "driving_classes"
	MedicalEvaluations = "medical_evaluations"
)

// cascades повторяет ON DELETE CASCADE / SET NULL схемы: изменение родителя задевает строки потомков.
var cascades = map[string][]string{
	Users:        {Appointments, DrivingClasses, MedicalEvaluations},
	Appointments: {MedicalEvaluations},
	LicenseTypes: {Appointments},
}

type subscription struct {
	tables map[string]struct{}
	ch     chan struct{}
}

type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]*subscription)}
}

// Subscribe возвращает канал-сигнал изменений указанных таблиц и функцию отписки.
// Канал буферизован на одно значение: пачка изменений схлопывается в один сигнал.
func (h *Hub) Subscribe(tables ...string) (<-chan struct{}, func()) {
	sub := &subscription{tables: make(map[string]struct{}, len(tables)), ch: make(chan struct{}, 1)}
	for _, t := range tables {
		sub.tables[t] = struct{}{}
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()
	metrics.LiveSubscribers.Inc()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			metrics.LiveSubscribers.Dec()
		})
	}
}

// Publish уведомляет подписчиков таблиц и всех каскадно зависимых от них.
func (h *Hub) Publish(tables ...string) {
	touched := expand(tables)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if !intersects(sub.tables, touched) {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

func expand(tables []string) map[string]struct{} {
	out := make(map[string]struct{})
	queue := append([]string(nil), tables...)
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if _, seen := out[t]; seen {
			continue
		}
		out[t] = struct{}{}
		queue = append(queue, cascades[t]...)
	}
	return out
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
