package client

import "errors"

// Ключи локального хранилища
const (
	keyOrdersPrefix = "paintpro_orders_"
	keySyncQueue    = "paintpro_sync_queue"
	keyDeadLetters  = "paintpro_dead_letters"
	keyUsers        = "paintpro_users"
	keyCurrentUser  = "paintpro_current_user"
)

var ErrStorageClosed = errors.New("storage is closed")

// Storage - синхронное key/value хранилище без транзакций между ключами
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

func ordersKey(ownerID string) string {
	return keyOrdersPrefix + ownerID
}
