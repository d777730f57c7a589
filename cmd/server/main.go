package main

import (
	"Inventaris/internal/config"
	"Inventaris/internal/handlers"
	"Inventaris/internal/lock"
	"Inventaris/internal/logger"
	"Inventaris/internal/middleware"
	"Inventaris/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.NewConfig()

	zl, err := logger.New(logger.Options{Level: cfg.LogLevel, Mode: cfg.LogMode, File: cfg.LogFile})
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := zl.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = zl.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, sugar); err != nil {
		sugar.Errorw("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) error {
	store, err := openStorage(cfg.StorageDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			sugar.Warnw("failed to close storage", "error", err)
		}
	}()

	locker, closeLocker, err := newLocker(ctx, cfg, sugar)
	if err != nil {
		return err
	}
	defer closeLocker()

	catalog := service.NewCatalog(store.items, store.borrowings, locker, sugar)
	svc := handlers.Services{
		Catalog: catalog,
		Ledger:  service.NewLedger(catalog, store.borrowings, sugar),
		Users:   service.NewUserService(store.users),
		Auditor: service.NewAuditor(catalog, sugar),
	}

	created, err := svc.Users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		sugar.Infow("Bootstrap admin created", "username", cfg.AdminUsername)
	}
	if cfg.SeedDemo {
		if err := service.Seed(ctx, catalog, svc.Users, sugar); err != nil {
			return err
		}
	}

	sched, err := service.ScheduleAudit(svc.Auditor, cfg.AuditSchedule, sugar)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	h := handlers.NewHandler(svc, sugar, cfg)
	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sugar.Infow("Starting server",
		"addr", cfg.BaseURL,
		"storage", cfg.StorageDriver,
		"distributed_locks", cfg.RedisAddr != "",
		"audit_schedule", cfg.AuditSchedule,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sugar.Infow("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newLocker выбирает блокировки: Redis, если задан адрес, иначе в памяти процесса.
func newLocker(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) (lock.Locker, func(), error) {
	if cfg.RedisAddr == "" {
		return lock.NewKeyed(), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return lock.NewRedis(rdb, cfg.LockTTL, 0, sugar), func() { _ = rdb.Close() }, nil
}
