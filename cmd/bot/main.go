// Package main — точка входа Telegram-бота навигатора промежуточной
// аттестации.
//
// Бот отвечает за самостоятельную регистрацию студентов и кураторов и за
// ежедневную рассылку напоминаний об экзаменах. Состояние диалогов живёт в
// Redis, чтобы переживать перезапуски; без Redis бот работает на
// внутрипроцессном хранилище.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Roy42022p/Backend/config"
	"github.com/Roy42022p/Backend/internal/application/notify"
	"github.com/Roy42022p/Backend/internal/application/registration"
	"github.com/Roy42022p/Backend/internal/infrastructure/external/telegram"
	"github.com/Roy42022p/Backend/internal/infrastructure/persistence/postgres"
	redisstore "github.com/Roy42022p/Backend/internal/infrastructure/persistence/redis"
	"github.com/Roy42022p/Backend/internal/infrastructure/scheduler"
	"github.com/Roy42022p/Backend/internal/infrastructure/scheduler/jobs"
	botapi "github.com/Roy42022p/Backend/internal/interface/telegram"
	"github.com/Roy42022p/Backend/pkg/timeutil"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. КОНФИГУРАЦИЯ И ЛОГИРОВАНИЕ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	log := setupLogger(cfg)
	log.Info("starting attestation navigator bot", "env", cfg.App.Environment)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. БАЗА ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	// Миграции применяет API-процесс; бот только читает и пишет данные.
	log.Info("connecting to database...")
	conn, err := connectDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		conn.Close()
	}()

	studentRepo := postgres.NewStudentRepository(conn)
	curatorRepo := postgres.NewCuratorRepository(conn)
	handleRepo := postgres.NewHandleRepository(conn)
	examRepo := postgres.NewExamRepository(conn)
	reminderLog := postgres.NewReminderLogRepository(conn)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩЕ СЕССИЙ РЕГИСТРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	store, closeStore := setupStateStore(ctx, cfg, log)
	defer closeStore()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. TELEGRAM-КЛИЕНТ И МАРШРУТИЗАТОР
	// ─────────────────────────────────────────────────────────────────────────
	tgConfig := telegram.DefaultClientConfig(cfg.Telegram.Token)
	tgConfig.Logger = log
	tgClient := telegram.NewClient(tgConfig)

	me, err := tgClient.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach Telegram Bot API: %w", err)
	}
	log.Info("telegram bot authorized", "username", me.Username)

	// Длинный опрос несовместим с активным вебхуком.
	if err := tgClient.DeleteWebhook(ctx, true); err != nil {
		log.Warn("failed to delete webhook", "error", err)
	}

	machine := registration.NewMachine(store, studentRepo, curatorRepo, handleRepo, log)
	router := botapi.NewRouter(tgClient, machine, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ПЛАНИРОВЩИК НАПОМИНАНИЙ
	// ─────────────────────────────────────────────────────────────────────────
	notifier := notify.NewNotifier(tgClient, notify.DefaultSendDelay, log)
	resolver := notify.NewResolver(examRepo, studentRepo)
	remindersJob := jobs.NewExamRemindersJob(examRepo, reminderLog, resolver, notifier, log)

	sched := scheduler.New(timeutil.MoscowTZ, log)
	if cfg.Scheduler.Enabled {
		schedule := scheduler.NewDailyAtSchedule(
			cfg.Scheduler.ReminderHour,
			cfg.Scheduler.ReminderMinute,
			timeutil.MoscowTZ,
		)
		if err := sched.Register(remindersJob, schedule); err != nil {
			return fmt.Errorf("failed to register reminders job: %w", err)
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler...")
			if err := sched.Stop(); err != nil {
				log.Warn("failed to stop scheduler", "error", err)
			}
		}()

		// Стартовый проход: напоминания, пропущенные за время простоя,
		// уходят сразу, не дожидаясь следующего утра.
		go func() {
			if err := sched.RunNow(ctx, remindersJob.Name()); err != nil {
				log.Error("startup reminder pass failed", "error", err)
			}
		}()
	} else {
		log.Info("scheduler disabled by config")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ДЛИННЫЙ ОПРОС И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		errCh <- tgClient.StartPolling(ctx, router.HandleUpdate)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			log.Error("polling error", "error", err)
			return err
		}
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupStateStore выбирает хранилище сессий: Redis, а при его отсутствии —
// внутрипроцессное хранилище с тем же TTL.
func setupStateStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (registration.StateStore, func()) {
	if cfg.Redis.Disabled {
		log.Info("redis disabled, using in-memory session store")
		memory := registration.NewMemoryStore(registration.SessionTTL)
		return memory, memory.Close
	}

	redisCfg := redisstore.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB

	client, err := redisstore.NewClient(ctx, redisCfg)
	if err != nil {
		log.Warn("redis unavailable, falling back to in-memory session store", "error", err)
		memory := registration.NewMemoryStore(registration.SessionTTL)
		return memory, memory.Close
	}

	log.Info("redis connection established", "addr", redisCfg.Addr())
	store := redisstore.NewStateStore(client, registration.SessionTTL)
	return store, func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close redis client", "error", err)
		}
	}
}

// connectDatabase подключается к PostgreSQL: DATABASE_URL имеет приоритет
// над покомпонентной конфигурацией.
func connectDatabase(ctx context.Context, cfg *config.Config) (*postgres.Connection, error) {
	if cfg.Database.URL != "" {
		return postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	}

	pgCfg := postgres.DefaultConfig()
	pgCfg.Host = cfg.Database.Host
	pgCfg.Port = cfg.Database.Port
	pgCfg.Database = cfg.Database.Name
	pgCfg.User = cfg.Database.User
	pgCfg.Password = cfg.Database.Password
	pgCfg.SSLMode = cfg.Database.SSLMode
	pgCfg.MaxConns = cfg.Database.MaxConns
	pgCfg.MinConns = cfg.Database.MinConns
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	return postgres.NewConnection(ctx, pgCfg)
}

// setupLogger настраивает структурированное логирование: JSON в
// production, текст в development.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}
