package sync

import (
	"sort"
	"strings"

	"paintpro/internal/domain/order"
)

// Resolve - last-writer-wins по нормализованному времени создания.
// При равенстве побеждает удаленная версия. Это не CRDT и не векторные часы.
func Resolve(local, remote order.Order) order.Order {
	if local.Timestamp().After(remote.Timestamp()) {
		return local
	}
	return remote
}

// Merge собирает результат чтения: снимок сервера, в котором конфликтующие
// записи прошли через Resolve, плюс локальные записи с временными id.
// Возвращает итог и число разрешенных конфликтов.
func Merge(cached, remote []order.Order) ([]order.Order, int) {
	byID := make(map[order.ID]order.Order, len(cached))
	for _, c := range cached {
		if c.ID.IsDurable() {
			byID[c.ID] = c
		}
	}

	merged := make([]order.Order, 0, len(remote)+len(cached))
	conflicts := 0
	for _, r := range remote {
		if c, ok := byID[r.ID]; ok && !c.SameContent(r) {
			conflicts++
			merged = append(merged, Resolve(c, r))
			continue
		}
		merged = append(merged, r)
	}

	for _, c := range cached {
		if c.ID.IsTemporary() {
			merged = append(merged, c)
		}
	}
	return merged, conflicts
}

// NaturalKey - составной ключ для поиска дублей: номер + дата + клиент.
// Может совпасть у разных заказов с пустыми полями.
func NaturalKey(o order.Order) string {
	return strings.Join([]string{
		strings.TrimSpace(o.Number),
		strings.TrimSpace(o.Date),
		strings.TrimSpace(o.Client),
	}, "\x1f")
}

// FindDuplicates возвращает id всех дублей, кроме самого старого в группе
func FindDuplicates(records []order.Order) []order.ID {
	sorted := make([]order.Order, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().Before(sorted[j].Timestamp())
	})

	seen := make(map[string]struct{}, len(sorted))
	var dups []order.ID
	for _, o := range sorted {
		key := NaturalKey(o)
		if _, ok := seen[key]; ok {
			dups = append(dups, o.ID)
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
