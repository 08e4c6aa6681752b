// Package main — точка входа REST API навигатора промежуточной аттестации.
//
// Процесс поднимает подключение к PostgreSQL, применяет миграции, собирает
// прикладные сервисы и запускает HTTP-сервер. Уведомления о созданных
// экзаменах и изменённых оценках уходят в Telegram через фоновую очередь,
// поэтому API-процессу тоже нужен клиент Bot API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Roy42022p/Backend/config"
	"github.com/Roy42022p/Backend/internal/application/authz"
	"github.com/Roy42022p/Backend/internal/application/notify"
	"github.com/Roy42022p/Backend/internal/application/service"
	"github.com/Roy42022p/Backend/internal/infrastructure/docgen"
	"github.com/Roy42022p/Backend/internal/infrastructure/external/telegram"
	"github.com/Roy42022p/Backend/internal/infrastructure/persistence/postgres"
	httpapi "github.com/Roy42022p/Backend/internal/interface/http"
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

	log := setupLogger(cfg)
	log.Info("starting attestation navigator API",
		"env", cfg.App.Environment,
		"address", cfg.HTTP.Address(),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. БАЗА ДАННЫХ И МИГРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	conn, err := connectDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		conn.Close()
	}()

	log.Info("running database migrations...")
	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. РЕПОЗИТОРИИ
	// ─────────────────────────────────────────────────────────────────────────
	principalRepo := postgres.NewPrincipalRepository(conn)
	adminRepo := postgres.NewAdminRepository(conn)
	curatorRepo := postgres.NewCuratorRepository(conn)
	groupRepo := postgres.NewGroupRepository(conn)
	studentRepo := postgres.NewStudentRepository(conn)
	examRepo := postgres.NewExamRepository(conn)
	markRepo := postgres.NewMarkRepository(conn)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ФОНОВАЯ ОЧЕРЕДЬ УВЕДОМЛЕНИЙ
	// ─────────────────────────────────────────────────────────────────────────
	tgConfig := telegram.DefaultClientConfig(cfg.Telegram.Token)
	tgConfig.Logger = log
	tgClient := telegram.NewClient(tgConfig)

	notifier := notify.NewNotifier(tgClient, notify.DefaultSendDelay, log)
	resolver := notify.NewResolver(examRepo, studentRepo)
	queue := notify.NewQueue(resolver, examRepo, notifier, 0, log)
	queue.Start(ctx)
	defer func() {
		log.Info("stopping notification worker...")
		queue.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. СЕРВИСЫ И ГЕНЕРАТОР ДОКУМЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	tokens := authz.NewTokenManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	docs, err := docgen.NewGenerator(docgen.Config{
		BinaryPath:      cfg.Documents.GeneratorPath,
		SpecialtiesPath: cfg.Documents.SpecialtiesPath,
		OutputDir:       cfg.Documents.OutputDir,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize document generator: %w", err)
	}

	svcs := httpapi.Services{
		Auth:     service.NewAuthService(principalRepo, adminRepo, tokens, cfg.Auth.AdminKey, cfg.Auth.CuratorKey, log),
		Curators: service.NewCuratorService(curatorRepo, groupRepo, log),
		Groups:   service.NewGroupService(groupRepo, curatorRepo, log),
		Students: service.NewStudentService(studentRepo, groupRepo, log),
		Exams:    service.NewExamService(examRepo, groupRepo, queue, log),
		Marks:    service.NewMarkService(markRepo, examRepo, studentRepo, queue, log),
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. HTTP-СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	server := httpapi.NewServer(httpapi.Options{
		Address: cfg.HTTP.Address(),
		Tokens:  tokens,
		Docs:    docs,
		Logger:  log,
	}, svcs)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
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
