package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/event-hub/internal/api"
	"github.com/baharkarakas/event-hub/internal/auth"
	"github.com/baharkarakas/event-hub/internal/config"
	"github.com/baharkarakas/event-hub/internal/db"
	"github.com/baharkarakas/event-hub/internal/logger"
	"github.com/baharkarakas/event-hub/internal/metrics"
	"github.com/baharkarakas/event-hub/internal/notify"
	"github.com/baharkarakas/event-hub/internal/repository/memory"
	"github.com/baharkarakas/event-hub/internal/repository/postgres"
	"github.com/baharkarakas/event-hub/internal/services"
	"github.com/baharkarakas/event-hub/internal/storage"
	"github.com/baharkarakas/event-hub/internal/worker"
)

// memoryURL keeps everything in process; handy for demos, lost on restart.
const memoryURL = "memory://"

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeDB, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer closeDB()

	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.Redis.Addr != "" {
		rdb, err := storage.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Error("redis connect", "addr", cfg.Redis.Addr, "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		revoker = auth.NewRedisRevoker(rdb)
	}

	var images services.ImageStore
	if cfg.Minio.Endpoint != "" {
		ms, err := storage.NewMinioStore(ctx, cfg.Minio)
		if err != nil {
			log.Error("minio connect", "endpoint", cfg.Minio.Endpoint, "err", err)
			os.Exit(1)
		}
		images = ms
	} else {
		log.Warn("MINIO_ENDPOINT not set; image uploads disabled")
	}

	var notifier services.Notifier
	if cfg.SMTP.Enabled() {
		notifier = notify.NewSender(cfg.SMTP.Sender, notify.NewSMTPMailer(cfg.SMTP), log)
	} else {
		log.Warn("SMTP not configured; registration mail disabled")
	}

	wp := worker.NewPool(cfg.Workers)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authSvc := services.NewAuthService(repos.Users, tm, revoker, cfg.AdminEmails)
	eventSvc := services.NewEventService(repos.Events, repos.Registrations, repos.Users, repos.AuditLogs, images)
	regSvc := services.NewRegistrationService(repos.Registrations, repos.Events, repos.Users, repos.AuditLogs, notifier, wp)

	if notifier != nil {
		rem := notify.NewReminder(regSvc, log)
		if err := rem.Start(cfg.Reminder); err != nil {
			log.Error("reminder schedule", "spec", cfg.Reminder, "err", err)
			os.Exit(1)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			rem.Stop(stopCtx)
		}()
	}

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{Cfg: cfg, Log: log, Auth: authSvc, Events: eventSvc, Regs: regSvc})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

func openRepositories(ctx context.Context, cfg config.Config) (postgres.Repositories, func(), error) {
	if cfg.DatabaseURL == memoryURL {
		st := memory.New()
		slog.Warn("using in-memory store; data is not persisted")
		return postgres.Repositories{
			Users:         st.Users(),
			Events:        st.Events(),
			Registrations: st.Registrations(),
			AuditLogs:     st.AuditLogs(),
		}, func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return postgres.Repositories{}, nil, err
	}
	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return postgres.Repositories{}, nil, err
		}
	}
	return postgres.NewRepositories(pool), pool.Close, nil
}
