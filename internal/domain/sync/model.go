package sync

import (
	"time"

	"github.com/google/uuid"

	"paintpro/internal/domain/order"
)

const DefaultMaxAttempts = 5

// OpKind - тип отложенной операции
type OpKind string

const (
	OpCreate OpKind = "CREATE"
	OpUpdate OpKind = "UPDATE"
	OpDelete OpKind = "DELETE"
)

// Operation - мутация, еще не подтвержденная удаленным хранилищем
type Operation struct {
	ID          string       `json:"id"`
	Kind        OpKind       `json:"kind"`
	OwnerID     string       `json:"owner_id"`
	Target      order.ID     `json:"target"`
	Record      *order.Order `json:"record,omitempty"` // для CREATE
	Patch       *order.Patch `json:"patch,omitempty"`  // для UPDATE
	Attempts    int          `json:"attempts"`
	MaxAttempts int          `json:"max_attempts"`
	CreatedAt   time.Time    `json:"created_at"`
	LastError   string       `json:"last_error,omitempty"`
}

func NewOperation(kind OpKind, ownerID string, target order.ID, maxAttempts int, now time.Time) Operation {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return Operation{
		ID:          uuid.NewString(),
		Kind:        kind,
		OwnerID:     ownerID,
		Target:      target,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
	}
}

// Exhausted - бюджет попыток исчерпан
func (op Operation) Exhausted() bool {
	return op.Attempts >= op.MaxAttempts
}

// DeadLetter - операция, снятая с очереди после исчерпания попыток
type DeadLetter struct {
	Operation Operation `json:"operation"`
	Error     string    `json:"error"`
	FailedAt  time.Time `json:"failed_at"`
}

// Error - ошибка синхронизации для статуса
type Error struct {
	OperationID string    `json:"operation_id,omitempty"`
	Operation   string    `json:"operation"`
	RecordID    string    `json:"record_id,omitempty"`
	Class       string    `json:"class"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// Status - то, что видит пользователь: длина очереди, идет ли синхронизация, ошибки
type Status struct {
	QueueLength  int          `json:"queue_length"`
	IsSyncing    bool         `json:"is_syncing"`
	LastSyncTime time.Time    `json:"last_sync_time"`
	Online       bool         `json:"online"`
	DrainState   DrainState   `json:"drain_state"`
	NeedsLogin   bool         `json:"needs_login"` // сервер отверг сессию, очередь ждет входа
	Errors       []Error      `json:"errors"`
	DeadLetters  []DeadLetter `json:"dead_letters"`
}
