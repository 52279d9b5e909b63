package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/account"
	"github.com/Spok95/driving-school-bot/internal/app"
	"github.com/Spok95/driving-school-bot/internal/bot"
	"github.com/Spok95/driving-school-bot/internal/config"
	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/jobs"
	"github.com/Spok95/driving-school-bot/internal/live"
	"github.com/Spok95/driving-school-bot/internal/logging"
	"github.com/Spok95/driving-school-bot/internal/observability"
	"github.com/Spok95/driving-school-bot/internal/readiness"
	"github.com/Spok95/driving-school-bot/internal/repository"
	"github.com/Spok95/driving-school-bot/internal/tg"
)

var release = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env, release)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer lg.Closer()
	log := lg.Base

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		log.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(ctx, database); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	hub := live.NewHub()
	latch := readiness.New()
	go app.Bootstrap(ctx, database, cfg.Admin, db.SeedCatalog, latch, log.Named("seed"))

	store := repository.New(database, hub, latch)
	accounts := account.NewService(store.Users, log.Named("account"))

	app.StartHTTP(ctx, cfg.HTTPAddr, database, latch, log.Named("http"))
	log.Info("http listening", zap.String("addr", cfg.HTTPAddr))

	if cfg.BotToken == "" {
		log.Warn("BOT_TOKEN is empty, telegram front is disabled")
		<-ctx.Done()
		return
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal("telegram init failed", zap.Error(err))
	}

	runner := jobs.New(ctx, log.Named("jobs"))
	reminder := &jobs.AppointmentReminder{
		Appointments: store.Appointments,
		Users:        store.Users,
		Notifier:     tg.Notifier{Bot: api},
		Location:     cfg.Location,
		Now:          time.Now,
		Log:          log.Named("reminders"),
	}
	runner.Every(cfg.ReminderEvery, "appointment_reminders", reminder.Run)

	if err := bot.New(api, store, accounts, cfg.Location, log.Named("bot")).Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("bot stopped", zap.Error(err))
	}
	runner.Wait()
	log.Info("shutdown complete")
}
