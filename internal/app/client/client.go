package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	gosync "sync"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"paintpro/internal/app/client/config"
	"paintpro/internal/domain/sync"
)

// Remote - все, что клиенту нужно от сервера
type Remote interface {
	Gateway
	AuthGateway
	Prober
}

type App struct {
	config  *config.Config
	log     *slog.Logger
	remote  Remote
	storage Storage
	monitor *Monitor
	cache   *Cache
	queue   *Queue
	sync    *SyncService
	auth    *Auth
	wg      gosync.WaitGroup
	closed  bool
	mu      gosync.Mutex
}

// New собирает клиента из готовых зависимостей. Шлюз создается один раз
// и передается всем компонентам.
func New(cfg *config.Config, log *slog.Logger, remote Remote, storage Storage) *App {
	monitor := NewMonitor(false, cfg.Debounce, log)
	cache := NewCache(storage, log)
	queue := NewQueue(storage, log)

	syncCfg := SyncConfig{
		Retry: sync.RetryPolicy{
			Attempts:  cfg.RetryAttempts,
			BaseDelay: cfg.RetryBaseDelay,
			MaxDelay:  8 * cfg.RetryBaseDelay,
		},
		RequestTimeout: cfg.RequestTimeout,
		MaxAttempts:    cfg.MaxOpAttempts,
	}

	auth := NewAuth(remote, storage, monitor, cfg.RequestTimeout, log)

	return &App{
		config:  cfg,
		log:     log,
		remote:  remote,
		storage: storage,
		monitor: monitor,
		cache:   cache,
		queue:   queue,
		sync:    NewSyncService(remote, auth, cache, queue, monitor, syncCfg, log),
		auth:    auth,
	}
}

// Open открывает локальную базу и HTTP-шлюз по конфигурации
func Open(cfg *config.Config, log *slog.Logger) (*App, error) {
	var storage Storage
	sqliteStorage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
		storage = NewMemoryStorage()
	} else {
		storage = sqliteStorage
	}

	return New(cfg, log, NewHTTPGateway(cfg, log), storage), nil
}

// Start восстанавливает сессию и один раз проверяет связь.
// Если сервер доступен и есть вход с токеном, очередь владельца уходит в фоне.
func (a *App) Start(ctx context.Context) {
	if _, err := a.auth.Current(); err != nil && !errors.Is(err, ErrNotLoggedIn) {
		a.log.Warn("Не удалось восстановить сессию", "error", err)
	}

	pctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := a.remote.Ping(pctx); err != nil {
		a.log.Info("Сервер недоступен, работаем офлайн", "error", err)
		return
	}
	a.monitor.SetOnline()
}

// Run держит клиента запущенным: опрос связи, периодический проход
// по очереди, завершение по SIGINT/SIGTERM или отмене ctx.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.monitor.Run(ctx, a.remote, a.config.ProbeInterval, a.config.RequestTimeout)
	}()
	go func() {
		defer a.wg.Done()
		a.startSync(ctx)
	}()

	a.log.Info("Клиент запущен",
		"server", a.config.ServerAddress,
		"env", a.config.Env,
	)

	<-ctx.Done()
	a.log.Info("Получен сигнал завершения")
	a.wg.Wait()
	return nil
}

func (a *App) startSync(ctx context.Context) {
	ticker := time.NewTicker(a.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("Синхронизация остановлена")
			return
		case <-ticker.C:
			if a.queue.Len() == 0 {
				continue
			}
			a.sync.Drain(ctx)
		}
	}
}

// Close дожидается фоновых проходов и закрывает хранилище
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	a.sync.Close()
	if err := a.storage.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}

func (a *App) Sync() *SyncService { return a.sync }
func (a *App) Auth() *Auth { return a.auth }
func (a *App) Monitor() *Monitor { return a.monitor }

// Owner - id профиля текущей сессии
func (a *App) Owner() (string, error) {
	u, err := a.auth.Current()
	if err != nil {
		return "", err
	}
	return u.Profile.ID, nil
}
