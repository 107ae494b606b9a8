package client

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"paintpro/internal/domain/sync"
)

// Prober проверяет доступность удаленного хранилища
type Prober interface {
	Ping(ctx context.Context) error
}

// Monitor - автомат ONLINE ⇄ OFFLINE.
// Переход в ONLINE сразу вызывает слушателей и планирует повторный вызов
// через debounce. Слушатели не должны блокироваться.
type Monitor struct {
	mu        gosync.Mutex
	online    bool
	debounce  time.Duration
	listeners []func()
	timer     *time.Timer
	log       *slog.Logger
}

func NewMonitor(online bool, debounce time.Duration, log *slog.Logger) *Monitor {
	return &Monitor{
		online:   online,
		debounce: debounce,
		log:      log.With("component", "monitor"),
	}
}

// OnOnline регистрирует слушателя перехода в ONLINE
func (m *Monitor) OnOnline(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, fn)
}

func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.online
}

func (m *Monitor) SetOnline() {
	m.mu.Lock()
	if m.online {
		m.mu.Unlock()
		return
	}
	m.online = true
	listeners := append([]func(){}, m.listeners...)

	if m.timer != nil {
		m.timer.Stop()
	}
	if m.debounce > 0 {
		m.timer = time.AfterFunc(m.debounce, func() {
			if m.IsOnline() {
				notify(listeners)
			}
		})
	}
	m.mu.Unlock()

	m.log.Info("Связь восстановлена")
	notify(listeners)
}

func (m *Monitor) SetOffline(reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.online {
		return
	}
	m.online = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.log.Warn("Связь потеряна", "reason", reason)
}

// ReportError переводит монитор в OFFLINE, если ошибка сетевая.
// Отмена вызова самим пользователем связь не характеризует.
func (m *Monitor) ReportError(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	if sync.IsNetwork(err) {
		m.SetOffline(err)
	}
}

// Run опрашивает prober с заданным интервалом до отмены ctx
func (m *Monitor) Run(ctx context.Context, prober Prober, interval, timeout time.Duration) {
	probe := func() {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := prober.Ping(pctx); err != nil {
			if ctx.Err() == nil {
				m.SetOffline(err)
			}
			return
		}
		m.SetOnline()
	}

	probe()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

// Stop отменяет запланированный повторный вызов
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
