package sync

import (
	"encoding/json"
)

// DrainState - состояние прохода по очереди: Idle → Draining → Idle|Aborted
type DrainState int32

const (
	DrainIdle DrainState = iota
	DrainDraining
	DrainAborted
)

func (s DrainState) String() string {
	switch s {
	case DrainDraining:
		return "draining"
	case DrainAborted:
		return "aborted"
	default:
		return "idle"
	}
}

func (s DrainState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Next проверяет переход автомата. Из Draining можно только завершиться,
// в Draining можно войти из Idle или Aborted.
func (s DrainState) Next(to DrainState) bool {
	switch s {
	case DrainIdle, DrainAborted:
		return to == DrainDraining
	case DrainDraining:
		return to == DrainIdle || to == DrainAborted
	default:
		return false
	}
}

// DrainResult - итог одного прохода
type DrainResult struct {
	Skipped      bool       `json:"skipped"` // другой проход уже идет
	Processed    int        `json:"processed"`
	Failed       int        `json:"failed"`
	DeadLettered int        `json:"dead_lettered"`
	Remaining    int        `json:"remaining"`
	State        DrainState `json:"state"`
	Err          error      `json:"-"` // сетевая ошибка или отказ сессии, прервавшие проход
}

// Aborted - проход прерван сетевой ошибкой или отказом сессии
func (r DrainResult) Aborted() bool {
	return r.State == DrainAborted
}
