package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "drivingschool"

var (
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "handler_errors_total", Help: "Handler errors",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
	LiveSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "live_subscribers", Help: "Open reactive list subscriptions",
	})
	WizardConfirmations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "wizard_confirmations_total", Help: "Booking wizard confirmations by result",
	}, []string{"workflow", "result"})
	SeedRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "seed_runs_total", Help: "Bootstrap seeding runs by result",
	}, []string{"result"})

	// JobRuns — result: ok, failed, panic.
	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "job_runs_total", Help: "Background job runs by result",
	}, []string{"job", "result"})
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "job_duration_seconds", Help: "Background job duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	// Reminders — result: sent, failed, skipped (прошедшие записи и пользователи без чата).
	Reminders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "appointment_reminders_total", Help: "Appointment reminders by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(BotUpdates, HandlerErrors, DBPing, LiveSubscribers, WizardConfirmations, SeedRuns,
		JobRuns, JobDuration, Reminders)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveConfirmation(workflow string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	WizardConfirmations.WithLabelValues(workflow, result).Inc()
}

func ObserveJob(job, result string, d time.Duration) {
	JobRuns.WithLabelValues(job, result).Inc()
	JobDuration.WithLabelValues(job).Observe(d.Seconds())
}
