package sync

import (
	"context"
	"errors"
	"fmt"
)

// Классы ошибок удаленного хранилища
var (
	// ErrNetwork - нет связи, таймаут, ошибка транспорта. Не расходует попытки.
	ErrNetwork = errors.New("network unavailable")
	// ErrData - хранилище отвергло данные. Расходует попытки операции.
	ErrData = errors.New("rejected by remote store")
	// ErrAuth - сессия на сервере недействительна. Проход прерывается,
	// попытки не расходуются, операции ждут повторного входа.
	ErrAuth = errors.New("remote session rejected")

	// ErrNoSession - нет токена сервера: вход был офлайн или не выполнен
	ErrNoSession = fmt.Errorf("no server session: %w", ErrAuth)

	ErrOffline          = fmt.Errorf("offline: %w", ErrNetwork)
	ErrUnresolvedTarget = errors.New("operation targets an unreconciled temporary id")
)

// Class - класс ошибки для политики очереди
type Class int

const (
	ClassNone Class = iota
	ClassNetwork
	ClassData
	ClassAuth
)

func (c Class) String() string {
	switch c {
	case ClassNetwork:
		return "network"
	case ClassData:
		return "data"
	case ClassAuth:
		return "auth"
	default:
		return "none"
	}
}

type classified struct {
	class error
	err   error
}

func (e *classified) Error() string   { return e.err.Error() }
func (e *classified) Unwrap() []error { return []error{e.class, e.err} }

// NetworkError помечает ошибку как сетевую
func NetworkError(err error) error {
	if err == nil {
		return nil
	}
	return &classified{class: ErrNetwork, err: err}
}

// DataError помечает ошибку как ошибку данных
func DataError(err error) error {
	if err == nil {
		return nil
	}
	return &classified{class: ErrData, err: err}
}

// AuthError помечает ошибку как отказ в авторизации
func AuthError(err error) error {
	if err == nil {
		return nil
	}
	return &classified{class: ErrAuth, err: err}
}

// IsNetwork - сетевая ошибка, включая истекший или отмененный контекст
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// Classify определяет класс ошибки. Неразмеченная ошибка считается
// ошибкой данных: так она ограничена числом попыток и не блокирует очередь.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case IsNetwork(err):
		return ClassNetwork
	case errors.Is(err, ErrAuth):
		return ClassAuth
	default:
		return ClassData
	}
}
