package client

import (
	"encoding/json"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"paintpro/internal/domain/order"
)

// CacheOp - вид точечной правки снимка
type CacheOp int

const (
	CacheAdd CacheOp = iota
	CacheUpdate
	CacheDelete
)

type cacheEntry struct {
	Records   []order.Order `json:"records"`
	UpdatedAt time.Time     `json:"updated_at"`
	Version   uint64        `json:"version"`
}

// Cache - последний известный снимок заказов каждого владельца.
// Память главная: ошибка записи на диск логируется и не откатывает изменение.
type Cache struct {
	mu      gosync.Mutex
	store   Storage
	log     *slog.Logger
	now     func() time.Time
	entries map[string]*cacheEntry
}

func NewCache(store Storage, log *slog.Logger) *Cache {
	return &Cache{
		store:   store,
		log:     log.With("component", "cache"),
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

// Read возвращает копию снимка. Никогда не падает: при ошибке - пустой список.
func (c *Cache) Read(ownerID string) []order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	return cloneOrders(c.entry(ownerID).Records)
}

// Find ищет запись по id в снимке владельца
func (c *Cache) Find(ownerID string, id order.ID) (order.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(ownerID)
	if i := indexOf(e.Records, id); i >= 0 {
		return e.Records[i], true
	}
	return order.Order{}, false
}

// Version - счетчик изменений снимка, только для инвалидации представлений
func (c *Cache) Version(ownerID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entry(ownerID).Version
}

// Write целиком заменяет снимок владельца
func (c *Cache) Write(ownerID string, records []order.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(ownerID)
	e.Records = cloneOrders(records)
	c.commit(ownerID, e)
}

// Apply правит снимок: add добавляет в начало, update заменяет запись
// с тем же id (если ее нет - ничего), delete удаляет по id.
func (c *Cache) Apply(ownerID string, rec order.Order, op CacheOp) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(ownerID)
	switch op {
	case CacheAdd:
		e.Records = append([]order.Order{rec}, e.Records...)
	case CacheUpdate:
		i := indexOf(e.Records, rec.ID)
		if i < 0 {
			return
		}
		e.Records[i] = rec
	case CacheDelete:
		i := indexOf(e.Records, rec.ID)
		if i < 0 {
			return
		}
		e.Records = append(e.Records[:i:i], e.Records[i+1:]...)
	}
	c.commit(ownerID, e)
}

// Patch применяет патч к записи и возвращает результат.
// false - записи с таким id в снимке нет.
func (c *Cache) Patch(ownerID string, id order.ID, p order.Patch) (order.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(ownerID)
	i := indexOf(e.Records, id)
	if i < 0 {
		return order.Order{}, false
	}
	e.Records[i] = p.Apply(e.Records[i])
	c.commit(ownerID, e)
	return e.Records[i], true
}

// Reconcile заменяет запись с временным id подтвержденной версией.
// Если подтвержденная запись уже есть в снимке, временная просто удаляется.
func (c *Cache) Reconcile(ownerID string, tempID order.ID, confirmed order.Order) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(ownerID)
	i := indexOf(e.Records, tempID)
	if i < 0 {
		return false
	}
	if indexOf(e.Records, confirmed.ID) >= 0 {
		e.Records = append(e.Records[:i:i], e.Records[i+1:]...)
	} else {
		e.Records[i] = confirmed
	}
	c.commit(ownerID, e)
	return true
}

func (c *Cache) entry(ownerID string) *cacheEntry {
	if e, ok := c.entries[ownerID]; ok {
		return e
	}

	e := &cacheEntry{}
	raw, ok, err := c.store.Get(ordersKey(ownerID))
	switch {
	case err != nil:
		c.log.Warn("Не удалось прочитать кэш", "owner_id", ownerID, "error", err)
	case ok && raw != "":
		if err := json.Unmarshal([]byte(raw), e); err != nil {
			c.log.Warn("Кэш поврежден, начинаем с пустого", "owner_id", ownerID, "error", err)
			e = &cacheEntry{}
		}
	}
	c.entries[ownerID] = e
	return e
}

func (c *Cache) commit(ownerID string, e *cacheEntry) {
	e.Version++
	e.UpdatedAt = c.now().UTC()

	data, err := json.Marshal(e)
	if err != nil {
		c.log.Error("Не удалось сериализовать кэш", "owner_id", ownerID, "error", err)
		return
	}
	if err := c.store.Set(ordersKey(ownerID), string(data)); err != nil {
		c.log.Error("Не удалось сохранить кэш", "owner_id", ownerID, "error", err)
	}
}

func indexOf(records []order.Order, id order.ID) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneOrders(records []order.Order) []order.Order {
	out := make([]order.Order, len(records))
	copy(out, records)
	return out
}
