package client

import (
	"context"
	"encoding/json"
	gosync "sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slog"

	"paintpro/internal/domain/order"
	"paintpro/internal/domain/sync"
)

// ApplyFunc отправляет одну операцию в удаленное хранилище
type ApplyFunc func(ctx context.Context, op sync.Operation) error

// Queue - упорядоченная очередь неподтвержденных операций.
// Каждое изменение сразу сохраняется в Storage.
type Queue struct {
	mu    gosync.Mutex
	store Storage
	log   *slog.Logger
	now   func() time.Time
	ops   []sync.Operation
	dead  []sync.DeadLetter

	draining atomic.Bool
	state    atomic.Int32
}

func NewQueue(store Storage, log *slog.Logger) *Queue {
	q := &Queue{
		store: store,
		log:   log.With("component", "queue"),
		now:   time.Now,
	}
	q.load(keySyncQueue, &q.ops)
	q.load(keyDeadLetters, &q.dead)
	return q
}

// Enqueue добавляет операцию в конец. Дубликаты не схлопываются.
func (q *Queue) Enqueue(op sync.Operation) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.ops = append(q.ops, op)
	q.persist(keySyncQueue, q.ops)
	q.log.Debug("Операция добавлена в очередь", "op_id", op.ID, "kind", op.Kind, "target", op.Target.String())
}

// Dequeue удаляет операцию по id
func (q *Queue) Dequeue(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.index(id)
	if i < 0 {
		return false
	}
	q.ops = append(q.ops[:i:i], q.ops[i+1:]...)
	q.persist(keySyncQueue, q.ops)
	return true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.ops)
}

// Snapshot - копия очереди на текущий момент
func (q *Queue) Snapshot() []sync.Operation {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]sync.Operation, len(q.ops))
	copy(out, q.ops)
	return out
}

func (q *Queue) Get(id string) (sync.Operation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if i := q.index(id); i >= 0 {
		return q.ops[i], true
	}
	return sync.Operation{}, false
}

// Pending - есть ли в очереди операции над записью
func (q *Queue) Pending(target order.ID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, op := range q.ops {
		if op.Target == target {
			return true
		}
	}
	return false
}

// HasCreate - ждет ли отправки создание записи с этим id
func (q *Queue) HasCreate(target order.ID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, op := range q.ops {
		if op.Kind == sync.OpCreate && op.Target == target {
			return true
		}
	}
	return false
}

// Retarget переносит операции с временного id на постоянный
func (q *Queue) Retarget(from, to order.ID) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for i := range q.ops {
		if q.ops[i].Target == from {
			q.ops[i].Target = to
			n++
		}
	}
	if n > 0 {
		q.persist(keySyncQueue, q.ops)
	}
	return n
}

func (q *Queue) DeadLetters() []sync.DeadLetter {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]sync.DeadLetter, len(q.dead))
	copy(out, q.dead)
	return out
}

func (q *Queue) State() sync.DrainState {
	return sync.DrainState(q.state.Load())
}

// Draining - идет ли сейчас проход
func (q *Queue) Draining() bool {
	return q.draining.Load()
}

// Drain проходит по снимку очереди в порядке добавления и отправляет
// только операции ownerID. Чужие операции остаются в очереди до входа владельца.
// Операции, добавленные во время прохода, ждут следующего.
// Сетевая ошибка и отказ сессии прерывают проход, ошибка данных расходует попытку.
// Повторный вызов во время прохода сразу возвращает Skipped.
func (q *Queue) Drain(ctx context.Context, ownerID string, apply ApplyFunc) sync.DrainResult {
	if !q.draining.CompareAndSwap(false, true) {
		return sync.DrainResult{Skipped: true, State: q.State(), Remaining: q.Len()}
	}
	defer q.draining.Store(false)

	q.transition(sync.DrainDraining)
	res := sync.DrainResult{}

	for _, snap := range q.Snapshot() {
		if err := ctx.Err(); err != nil {
			res.Err = sync.NetworkError(err)
			break
		}

		// операцию могли перенацелить, пока шли предыдущие
		op, ok := q.Get(snap.ID)
		if !ok || op.OwnerID != ownerID {
			continue
		}

		err := apply(ctx, op)
		switch sync.Classify(err) {
		case sync.ClassNone:
			q.Dequeue(op.ID)
			res.Processed++
		case sync.ClassNetwork, sync.ClassAuth:
			q.log.Info("Проход по очереди прерван", "op_id", op.ID, "error", err)
			res.Err = err
		case sync.ClassData:
			res.Failed++
			if q.fail(op.ID, err) {
				res.DeadLettered++
			}
		}
		if res.Err != nil {
			break
		}
	}

	res.Remaining = q.Len()
	if res.Err != nil {
		res.State = sync.DrainAborted
	} else {
		res.State = sync.DrainIdle
	}
	q.transition(res.State)
	return res
}

// fail расходует попытку. true - операция ушла в dead letters.
func (q *Queue) fail(id string, cause error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.index(id)
	if i < 0 {
		return false
	}

	q.ops[i].Attempts++
	q.ops[i].LastError = cause.Error()
	if !q.ops[i].Exhausted() {
		q.persist(keySyncQueue, q.ops)
		return false
	}

	op := q.ops[i]
	q.ops = append(q.ops[:i:i], q.ops[i+1:]...)
	q.dead = append(q.dead, sync.DeadLetter{
		Operation: op,
		Error:     cause.Error(),
		FailedAt:  q.now().UTC(),
	})
	q.persist(keySyncQueue, q.ops)
	q.persist(keyDeadLetters, q.dead)
	q.log.Warn("Операция перенесена в dead letters", "op_id", op.ID, "kind", op.Kind, "attempts", op.Attempts, "error", cause)
	return true
}

func (q *Queue) transition(to sync.DrainState) {
	from := sync.DrainState(q.state.Swap(int32(to)))
	if from != to && !from.Next(to) {
		q.log.Warn("Неожиданный переход состояния прохода", "from", from.String(), "to", to.String())
	}
}

func (q *Queue) index(id string) int {
	for i := range q.ops {
		if q.ops[i].ID == id {
			return i
		}
	}
	return -1
}

func (q *Queue) load(key string, dst any) {
	raw, ok, err := q.store.Get(key)
	if err != nil {
		q.log.Warn("Не удалось загрузить очередь", "key", key, "error", err)
		return
	}
	if !ok || raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		q.log.Warn("Очередь повреждена, пропускаем", "key", key, "error", err)
	}
}

func (q *Queue) persist(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		q.log.Error("Не удалось сериализовать очередь", "key", key, "error", err)
		return
	}
	if err := q.store.Set(key, string(data)); err != nil {
		q.log.Error("Не удалось сохранить очередь", "key", key, "error", err)
	}
}
