package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/driving-school-bot/internal/booking"
	"github.com/Spok95/driving-school-bot/internal/models"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		want callback
		ok   bool
	}{
		{"cc:next", callback{flow: "cc", action: "next"}, true},
		{"cc:pick:STANDARD_4H", callback{flow: "cc", action: "pick", arg: "STANDARD_4H"}, true},
		{"ae:time:09:30", callback{flow: "ae", action: "time", arg: "09:30"}, true},
		{"cc", callback{}, false},
		{":next", callback{}, false},
		{"", callback{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, ok := parseCallback(tt.data)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("parseCallback(%q) = %+v, %v", tt.data, got, ok)
			}
		})
	}
	if got, _ := parseCallback(cbData(flowEdit, actTime, "18:30")); got.arg != "18:30" {
		t.Fatalf("round trip arg = %q", got.arg)
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		text string
		cmd  string
		args int
	}{
		{"/link a@b.c secret", "/link", 2},
		{"/Reschedule@school_bot 12", "/reschedule", 1},
		{"/my", "/my", 0},
		{"📅 Моё расписание", "📅 Моё расписание", 0},
	}
	for _, tt := range tests {
		cmd, args := splitCommand(tt.text)
		if cmd != tt.cmd || len(args) != tt.args {
			t.Fatalf("splitCommand(%q) = %q, %v", tt.text, cmd, args)
		}
	}
}

func TestParseExportDays(t *testing.T) {
	if n, err := parseExportDays(nil); err != nil || n != defaultExportDays {
		t.Fatalf("default = %d, %v", n, err)
	}
	if n, err := parseExportDays([]string{"30"}); err != nil || n != 30 {
		t.Fatalf("30 = %d, %v", n, err)
	}
	for _, bad := range []string{"0", "-1", "abc", "1000"} {
		if _, err := parseExportDays([]string{bad}); err == nil {
			t.Fatalf("%q accepted", bad)
		}
	}
}

type nopClasses struct{}

func (nopClasses) Insert(context.Context, models.DrivingClass) (int64, error) { return 1, nil }

func TestRenderClassStep(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	w := booking.StartClassCreate(nopClasses{}, 1, now, nil)

	text, kb := renderClassStep(w)
	if !strings.Contains(text, "1/3") {
		t.Fatalf("text = %q", text)
	}
	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			data = append(data, *btn.CallbackData)
		}
	}
	joined := strings.Join(data, " ")
	if !strings.Contains(joined, "cc:pick:BASIC_2H") || !strings.Contains(joined, "cc:pick:STANDARD_4H") {
		t.Fatalf("packages missing: %v", data)
	}
	if strings.Contains(joined, "cc:next") {
		t.Fatal("next offered without selection")
	}

	_ = w.SelectPackage(models.PackageStandard4H)
	_ = w.Next()
	_, kb = renderClassStep(w)
	var dates, times int
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			switch {
			case strings.HasPrefix(*btn.CallbackData, "cc:date:"):
				dates++
			case strings.HasPrefix(*btn.CallbackData, "cc:time:"):
				times++
			}
		}
	}
	if dates != len(w.Dates()) || times != 20 {
		t.Fatalf("dates = %d, times = %d", dates, times)
	}

	_ = w.SelectDate(w.Dates()[0])
	_ = w.SelectTime("09:00")
	_ = w.Next()
	text, _ = renderClassStep(w)
	if !strings.Contains(text, "125.0") || !strings.Contains(text, "Часов: 4") {
		t.Fatalf("summary text = %q", text)
	}
}

func TestFormatSchedule(t *testing.T) {
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	appts := []models.Appointment{
		{ID: 1, ScheduledDate: from.AddDate(0, 0, -1), ScheduledTime: "10:00", Type: models.TheoryExam, Status: models.StatusScheduled},
		{ID: 2, ScheduledDate: from.AddDate(0, 0, 1), ScheduledTime: "10:00", Type: models.TheoryExam, Status: models.StatusScheduled},
		{ID: 3, ScheduledDate: from, ScheduledTime: "12:00", Type: models.MedicalExam, Status: models.StatusCancelled},
	}
	classes := []models.DrivingClass{
		{ID: 9, ScheduledDate: from.AddDate(0, 0, 1), ScheduledTime: "08:00", Package: models.PackageBasic2H, TotalHours: 2, Status: models.ClassScheduled},
	}
	got := formatSchedule(from, appts, classes)
	if strings.Contains(got, "#1 ") || strings.Contains(got, "#3 ") {
		t.Fatalf("past or cancelled shown: %q", got)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "🚗") || !strings.HasPrefix(lines[2], "#2") {
		t.Fatalf("unexpected order: %q", got)
	}
	if formatSchedule(from, nil, nil) != "Ближайших записей нет." {
		t.Fatal("empty schedule text")
	}
}

func TestChatGate(t *testing.T) {
	g := newChatGate()
	var (
		mu      sync.Mutex
		running = map[int64]int{}
		maxSeen = map[int64]int{}
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		chatID := int64(i % 2)
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := g.lock(chatID)
			defer unlock()
			mu.Lock()
			running[chatID]++
			maxSeen[chatID] = max(maxSeen[chatID], running[chatID])
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			running[chatID]--
			mu.Unlock()
		}()
	}
	wg.Wait()
	for chatID, n := range maxSeen {
		if n != 1 {
			t.Fatalf("chat %d: %d concurrent handlers", chatID, n)
		}
	}
	if n := g.tracked(); n != 0 {
		t.Fatalf("idle chats still tracked: %d", n)
	}
}

func TestParseRegisterArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		ok   bool
		role models.Role
		last string
	}{
		{"too short", []string{"student", "a@b.c", "12345678Z", "secret1", "Ana"}, false, "", ""},
		{"simple", []string{"student", "a@b.c", "12345678Z", "secret1", "Ana", "García"}, true, models.Student, "García"},
		{"compound surname", []string{"Instructor", "i@b.c", "87654321X", "secret1", "Luis", "Pérez", "Gómez"}, true, models.Instructor, "Pérez Gómez"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := parseRegisterArgs(tt.args)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if in.Role != tt.role || in.LastName != tt.last {
				t.Fatalf("got role=%q last=%q", in.Role, in.LastName)
			}
		})
	}
}
