package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paintpro/internal/app/server/api"
	"paintpro/internal/app/server/api/http/middleware/ratelimit"
	"paintpro/internal/app/server/config"
	"paintpro/internal/domain/order"
	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/session"
	"paintpro/internal/infrastructure/migration"
	"paintpro/internal/infrastructure/storage/postgres"
	"paintpro/internal/utils/logger"

	"golang.org/x/exp/slog"
)

const janitorInterval = 10 * time.Minute

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env)

	if err := run(conf, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(conf *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migration.NewMigration(conf.DB.Migrations, conf.DB.DatabaseURI, migration.DefaultEngine, log).Up(); err != nil {
		return err
	}

	storage, err := postgres.New(ctx, conf.DB.DatabaseURI)
	if err != nil {
		return err
	}
	defer storage.Close()

	sessions := session.NewService(postgres.NewSessionRepository(storage, log), conf.Session.TTL, log)
	profiles := profile.NewService(postgres.NewProfileRepository(storage, log), profile.NewPinValidator(), log)
	orders := order.NewService(postgres.NewOrderRepository(storage, log), log)
	limiter := ratelimit.New(conf.RateLimit.RPS, conf.RateLimit.Burst, log)

	if err := profiles.EnsureDefaultAdmin(ctx, conf.AdminPin); err != nil {
		return err
	}

	srv := &http.Server{
		Addr: conf.Server.RunAddress,
		Handler: api.New(api.Services{
			DB:       storage,
			Orders:   orders,
			Profiles: profiles,
			Sessions: sessions,
			Limiter:  limiter,
		}, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go janitor(ctx, sessions, limiter, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", "address", conf.Server.RunAddress, "env", conf.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// janitor чистит истекшие сессии и забытые лимитеры
func janitor(ctx context.Context, sessions *session.Service, limiter *ratelimit.Limiter, log *slog.Logger) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.Cleanup(ctx); err != nil {
				log.Warn("session cleanup failed", "error", err)
			}
			if n := limiter.Sweep(); n > 0 {
				log.Debug("rate limiters evicted", "count", n)
			}
		}
	}
}
