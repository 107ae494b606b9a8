package client

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"paintpro/internal/domain/order"
	"paintpro/internal/domain/sync"
)

const maxStatusErrors = 50

// Gateway - удаленное хранилище заказов. Ошибки размечены
// sync.NetworkError / sync.DataError, 404 дополнительно несет order.ErrNotFound.
type Gateway interface {
	Insert(ctx context.Context, rec order.Order) (order.Order, error)
	Update(ctx context.Context, id order.ID, patch order.Patch) (order.Order, error)
	Delete(ctx context.Context, id order.ID) error
	SelectByOwner(ctx context.Context, ownerID string, ascending bool) ([]order.Order, error)
}

// Session - активный вход на сервер. ok=false, если токена нет:
// вход был офлайн или не выполнен.
type Session interface {
	Active() (ownerID string, ok bool)
}

// SyncConfig конфигурация синхронизации
type SyncConfig struct {
	Retry          sync.RetryPolicy
	RequestTimeout time.Duration
	MaxAttempts    int
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Retry:          sync.DefaultRetryPolicy(),
		RequestTimeout: 10 * time.Second,
		MaxAttempts:    sync.DefaultMaxAttempts,
	}
}

// SyncService держит локальный кэш, очередь и удаленное хранилище согласованными.
// Только он меняет кэш и очередь.
type SyncService struct {
	gateway Gateway
	session Session
	cache   *Cache
	queue   *Queue
	monitor *Monitor
	config  SyncConfig
	log     *slog.Logger
	now     func() time.Time

	mu         gosync.RWMutex
	lastSync   time.Time
	errors     []sync.Error
	needsLogin bool
	closed     bool

	bg     context.Context
	cancel context.CancelFunc
	wg     gosync.WaitGroup
}

// NewSyncService создает сервис и подписывает его на восстановление связи
func NewSyncService(gateway Gateway, session Session, cache *Cache, queue *Queue, monitor *Monitor, cfg SyncConfig, log *slog.Logger) *SyncService {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultSyncConfig().RequestTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = sync.DefaultMaxAttempts
	}

	bg, cancel := context.WithCancel(context.Background())
	s := &SyncService{
		gateway: gateway,
		session: session,
		cache:   cache,
		queue:   queue,
		monitor: monitor,
		config:  cfg,
		log:     log.With("component", "sync"),
		now:     time.Now,
		bg:      bg,
		cancel:  cancel,
	}
	monitor.OnOnline(s.TriggerDrain)
	return s
}

// CreateOrder сразу добавляет заказ в кэш под временным id и пробует
// отправить его. Если не вышло - операция остается в очереди.
// Ошибка возвращается только для некорректного ввода.
func (s *SyncService) CreateOrder(ctx context.Context, ownerID string, d order.Draft) ([]order.Order, error) {
	now := s.now()
	rec := order.New(ownerID, order.NewTemporaryID(ownerID, now), d, now)
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	s.cache.Apply(ownerID, rec, CacheAdd)

	if s.remote(ownerID) {
		confirmed, err := retried(ctx, s, func(ctx context.Context) (order.Order, error) {
			return s.gateway.Insert(ctx, rec)
		})
		if err == nil {
			s.cache.Reconcile(ownerID, rec.ID, confirmed)
			s.log.Debug("Заказ создан", "id", confirmed.ID.String())
			return s.cache.Read(ownerID), nil
		}
		s.fail(sync.OpCreate, "", rec.ID, err)
	}

	op := sync.NewOperation(sync.OpCreate, ownerID, rec.ID, s.config.MaxAttempts, now)
	op.Record = &rec
	s.queue.Enqueue(op)
	return s.cache.Read(ownerID), nil
}

// UpdateOrder правит кэш и отправляет патч. Запись с временным id
// или с ожидающими операциями сразу уходит в очередь, чтобы не обогнать их.
func (s *SyncService) UpdateOrder(ctx context.Context, ownerID string, id order.ID, p order.Patch) ([]order.Order, error) {
	if id.IsZero() {
		return nil, order.ErrInvalidID
	}
	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: %w", order.ErrInvalidData, order.ErrEmptyPatch)
	}
	if cur, ok := s.cache.Find(ownerID, id); ok {
		if err := p.Apply(cur).Validate(); err != nil {
			return nil, err
		}
		s.cache.Patch(ownerID, id, p)
	}

	if s.direct(ownerID, id) {
		_, err := retried(ctx, s, func(ctx context.Context) (order.Order, error) {
			return s.gateway.Update(ctx, id, p)
		})
		if err == nil {
			return s.cache.Read(ownerID), nil
		}
		s.fail(sync.OpUpdate, "", id, err)
	}

	op := sync.NewOperation(sync.OpUpdate, ownerID, id, s.config.MaxAttempts, s.now())
	op.Patch = &p
	s.queue.Enqueue(op)
	return s.cache.Read(ownerID), nil
}

// DeleteOrder удаляет запись из кэша и из удаленного хранилища
func (s *SyncService) DeleteOrder(ctx context.Context, ownerID string, id order.ID) ([]order.Order, error) {
	if id.IsZero() {
		return nil, order.ErrInvalidID
	}

	s.cache.Apply(ownerID, order.Order{ID: id}, CacheDelete)

	if s.direct(ownerID, id) {
		_, err := retried(ctx, s, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.gateway.Delete(ctx, id)
		})
		if err == nil || errors.Is(err, order.ErrNotFound) {
			return s.cache.Read(ownerID), nil
		}
		s.fail(sync.OpDelete, "", id, err)
	}

	op := sync.NewOperation(sync.OpDelete, ownerID, id, s.config.MaxAttempts, s.now())
	s.queue.Enqueue(op)
	return s.cache.Read(ownerID), nil
}

// GetOrders сливает снимок сервера с локальными данными.
// Без связи или при ошибке возвращает кэш как есть.
func (s *SyncService) GetOrders(ctx context.Context, ownerID string) []order.Order {
	if !s.remote(ownerID) {
		return s.cache.Read(ownerID)
	}

	orders, err := s.refresh(ctx, ownerID)
	if err != nil {
		return s.cache.Read(ownerID)
	}
	return orders
}

// Drain отправляет накопленные операции текущего владельца сессии.
// Без связи или без токена сервера ничего не делает.
func (s *SyncService) Drain(ctx context.Context) sync.DrainResult {
	if !s.monitor.IsOnline() {
		return s.idle(sync.ErrOffline)
	}
	ownerID, ok := s.session.Active()
	if !ok {
		return s.idle(sync.ErrNoSession)
	}

	start := s.now()
	res := s.queue.Drain(ctx, ownerID, s.apply)
	if res.Skipped {
		s.log.Debug("Проход по очереди уже идет")
		return res
	}

	switch sync.Classify(res.Err) {
	case sync.ClassNone:
		s.setNeedsLogin(false)
		s.markSynced()
	case sync.ClassNetwork:
		s.monitor.ReportError(res.Err)
	case sync.ClassAuth:
		s.log.Warn("Сервер отверг сессию, нужен повторный вход", "owner_id", ownerID)
	}

	s.log.Info("Проход по очереди завершен",
		"owner_id", ownerID,
		"processed", res.Processed,
		"failed", res.Failed,
		"dead_lettered", res.DeadLettered,
		"remaining", res.Remaining,
		"state", res.State.String(),
		"duration", s.now().Sub(start),
	)
	return res
}

// TriggerDrain запускает проход в фоне и сразу возвращается.
// Без сессии и после Close ничего не делает.
func (s *SyncService) TriggerDrain() {
	if _, ok := s.session.Active(); !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Drain(s.bg)
	}()
}

// ForceSync - проход по очереди и полное обновление кэша с сервера
func (s *SyncService) ForceSync(ctx context.Context, ownerID string) ([]order.Order, error) {
	if !s.monitor.IsOnline() {
		return s.cache.Read(ownerID), sync.ErrOffline
	}
	if !s.remote(ownerID) {
		return s.cache.Read(ownerID), sync.ErrNoSession
	}

	res := s.Drain(ctx)
	if res.Err != nil {
		return s.cache.Read(ownerID), fmt.Errorf("drain: %w", res.Err)
	}

	orders, err := s.refresh(ctx, ownerID)
	if err != nil {
		return s.cache.Read(ownerID), fmt.Errorf("refresh: %w", err)
	}
	s.markSynced()
	return orders, nil
}

// CleanDuplicates удаляет на сервере дубли по ключу номер+дата+клиент,
// оставляя самый старый, и обновляет кэш. Возвращает число удаленных.
func (s *SyncService) CleanDuplicates(ctx context.Context, ownerID string) (int, error) {
	if !s.monitor.IsOnline() {
		return 0, sync.ErrOffline
	}
	if !s.remote(ownerID) {
		return 0, sync.ErrNoSession
	}

	remote, err := timed(ctx, s.config.RequestTimeout, func(ctx context.Context) ([]order.Order, error) {
		return s.gateway.SelectByOwner(ctx, ownerID, true)
	})
	if err != nil {
		s.fail("CLEANUP", "", order.ID{}, err)
		return 0, fmt.Errorf("select orders: %w", err)
	}

	deleted := 0
	for _, id := range sync.FindDuplicates(remote) {
		_, err := timed(ctx, s.config.RequestTimeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.gateway.Delete(ctx, id)
		})
		if err != nil && !errors.Is(err, order.ErrNotFound) {
			s.fail("CLEANUP", "", id, err)
			return deleted, fmt.Errorf("delete duplicate %s: %w", id, err)
		}
		deleted++
	}

	if _, err := s.refresh(ctx, ownerID); err != nil {
		return deleted, fmt.Errorf("refresh: %w", err)
	}

	s.log.Info("Дубли удалены", "owner_id", ownerID, "deleted", deleted)
	return deleted, nil
}

// Status - состояние синхронизации для пользователя
func (s *SyncService) Status() sync.Status {
	s.mu.RLock()
	errs := make([]sync.Error, len(s.errors))
	copy(errs, s.errors)
	last := s.lastSync
	needsLogin := s.needsLogin
	s.mu.RUnlock()

	if !needsLogin && s.queue.Len() > 0 {
		_, ok := s.session.Active()
		needsLogin = !ok
	}

	return sync.Status{
		QueueLength:  s.queue.Len(),
		IsSyncing:    s.queue.Draining(),
		LastSyncTime: last,
		Online:       s.monitor.IsOnline(),
		DrainState:   s.queue.State(),
		NeedsLogin:   needsLogin,
		Errors:       errs,
		DeadLetters:  s.queue.DeadLetters(),
	}
}

// Close останавливает фоновые проходы и ждет их завершения
func (s *SyncService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.monitor.Stop()
	s.wg.Wait()
}

// Wait ждет завершения запущенных фоновых проходов
func (s *SyncService) Wait() {
	s.wg.Wait()
}

// apply отправляет одну операцию очереди. Повторы здесь не нужны:
// сетевая ошибка прерывает проход, и операция дождется следующего.
func (s *SyncService) apply(ctx context.Context, op sync.Operation) error {
	err := s.applyOp(ctx, op)
	if err != nil {
		s.fail(op.Kind, op.ID, op.Target, err)
	}
	return err
}

func (s *SyncService) applyOp(ctx context.Context, op sync.Operation) error {
	switch op.Kind {
	case sync.OpCreate:
		if op.Record == nil {
			return sync.DataError(fmt.Errorf("%w: create without record", order.ErrInvalidData))
		}
		confirmed, err := timed(ctx, s.config.RequestTimeout, func(ctx context.Context) (order.Order, error) {
			return s.gateway.Insert(ctx, *op.Record)
		})
		if err != nil {
			return err
		}
		if n := s.queue.Retarget(op.Target, confirmed.ID); n > 1 {
			s.log.Debug("Операции перенацелены", "from", op.Target.String(), "to", confirmed.ID.String(), "count", n-1)
		}

		// локальные правки, сделанные до подтверждения, не должны пропасть из кэша
		view := overlayPending([]order.Order{confirmed}, s.queue.Snapshot(), op.OwnerID)
		if len(view) == 1 {
			s.cache.Reconcile(op.OwnerID, op.Target, view[0])
		} else {
			s.cache.Apply(op.OwnerID, order.Order{ID: op.Target}, CacheDelete)
		}
		return nil

	case sync.OpUpdate:
		if op.Patch == nil {
			return sync.DataError(fmt.Errorf("%w: update without patch", order.ErrInvalidData))
		}
		if op.Target.IsTemporary() {
			return sync.DataError(sync.ErrUnresolvedTarget)
		}
		_, err := timed(ctx, s.config.RequestTimeout, func(ctx context.Context) (order.Order, error) {
			return s.gateway.Update(ctx, op.Target, *op.Patch)
		})
		return err

	case sync.OpDelete:
		if op.Target.IsTemporary() {
			// создание так и не дошло до сервера - удалять там нечего
			if !s.queue.HasCreate(op.Target) {
				return nil
			}
			return sync.DataError(sync.ErrUnresolvedTarget)
		}
		_, err := timed(ctx, s.config.RequestTimeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.gateway.Delete(ctx, op.Target)
		})
		if errors.Is(err, order.ErrNotFound) {
			return nil
		}
		return err

	default:
		return sync.DataError(fmt.Errorf("unknown operation kind %q", op.Kind))
	}
}

// refresh загружает снимок сервера, сливает его с кэшем и поверх
// накладывает еще не отправленные правки владельца.
func (s *SyncService) refresh(ctx context.Context, ownerID string) ([]order.Order, error) {
	remote, err := retried(ctx, s, func(ctx context.Context) ([]order.Order, error) {
		return s.gateway.SelectByOwner(ctx, ownerID, false)
	})
	if err != nil {
		s.fail("SELECT", "", order.ID{}, err)
		return nil, err
	}

	merged, conflicts := sync.Merge(s.cache.Read(ownerID), remote)
	if conflicts > 0 {
		s.log.Info("Конфликты разрешены", "owner_id", ownerID, "count", conflicts)
	}
	merged = overlayPending(merged, s.queue.Snapshot(), ownerID)

	s.cache.Write(ownerID, merged)
	return s.cache.Read(ownerID), nil
}

// overlayPending повторяет неподтвержденные правки и удаления поверх снимка
func overlayPending(records []order.Order, ops []sync.Operation, ownerID string) []order.Order {
	for _, op := range ops {
		if op.OwnerID != ownerID {
			continue
		}
		i := indexOf(records, op.Target)
		if i < 0 {
			continue
		}
		switch op.Kind {
		case sync.OpUpdate:
			if op.Patch != nil {
				records[i] = op.Patch.Apply(records[i])
			}
		case sync.OpDelete:
			records = append(records[:i:i], records[i+1:]...)
		}
	}
	return records
}

// remote - можно ли говорить с сервером от имени ownerID: связь есть,
// и токен сессии принадлежит именно ему
func (s *SyncService) remote(ownerID string) bool {
	if !s.monitor.IsOnline() {
		return false
	}
	active, ok := s.session.Active()
	return ok && active == ownerID
}

// direct - можно ли отправить операцию над записью сразу
func (s *SyncService) direct(ownerID string, id order.ID) bool {
	return id.IsDurable() && !s.queue.Pending(id) && s.remote(ownerID)
}

// idle - результат прохода, который не начался
func (s *SyncService) idle(err error) sync.DrainResult {
	return sync.DrainResult{
		State:     s.queue.State(),
		Remaining: s.queue.Len(),
		Err:       err,
	}
}

func (s *SyncService) setNeedsLogin(v bool) {
	s.mu.Lock()
	s.needsLogin = v
	s.mu.Unlock()
}

func (s *SyncService) fail(kind sync.OpKind, opID string, target order.ID, err error) {
	class := sync.Classify(err)
	switch class {
	case sync.ClassNetwork:
		s.monitor.ReportError(err)
	case sync.ClassAuth:
		s.setNeedsLogin(true)
	}

	e := sync.Error{
		OperationID: opID,
		Operation:   string(kind),
		RecordID:    target.String(),
		Class:       class.String(),
		Message:     err.Error(),
		Timestamp:   s.now().UTC(),
	}

	s.mu.Lock()
	s.errors = append(s.errors, e)
	if len(s.errors) > maxStatusErrors {
		s.errors = append([]sync.Error(nil), s.errors[len(s.errors)-maxStatusErrors:]...)
	}
	s.mu.Unlock()

	s.log.Warn("Ошибка синхронизации", "operation", kind, "record_id", e.RecordID, "class", e.Class, "error", err)
}

func (s *SyncService) markSynced() {
	s.mu.Lock()
	s.lastSync = s.now().UTC()
	s.mu.Unlock()
}

// retried - вызов шлюза с таймаутом и повторами сетевых сбоев
func retried[T any](ctx context.Context, s *SyncService, fn func(ctx context.Context) (T, error)) (T, error) {
	return sync.WithRetry(ctx, s.config.Retry, func(ctx context.Context) (T, error) {
		return timed(ctx, s.config.RequestTimeout, fn)
	})
}

// timed ограничивает один вызов шлюза по времени. Истекший таймаут - сетевая ошибка.
func timed[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	v, err := fn(ctx)
	if err != nil && !sync.IsNetwork(err) && ctx.Err() != nil {
		err = sync.NetworkError(fmt.Errorf("%w: %w", ctx.Err(), err))
	}
	return v, err
}
