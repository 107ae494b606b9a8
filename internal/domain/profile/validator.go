package profile

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPinLen  = 4
	MaxPinLen  = 8
	MaxNameLen = 64
)

// Validator - интерфейс для валидации данных профиля
type Validator interface {
	ValidatePin(pin string) error
	ValidateProfile(name string, pin string) error
}

type PinValidator struct{}

// NewPinValidator создает новый валидатор
func NewPinValidator() *PinValidator {
	return &PinValidator{}
}

// ValidatePin проверяет, что PIN состоит только из цифр нужной длины
func (v *PinValidator) ValidatePin(pin string) error {
	if len(pin) < MinPinLen || len(pin) > MaxPinLen {
		return fmt.Errorf("pin must be %d to %d digits", MinPinLen, MaxPinLen)
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("pin can only contain digits")
		}
	}
	return nil
}

// ValidateProfile валидирует данные нового профиля
func (v *PinValidator) ValidateProfile(name string, pin string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("name must be at most %d characters", MaxNameLen)
	}
	if err := v.ValidatePin(pin); err != nil {
		return fmt.Errorf("pin validation failed: %w", err)
	}
	return nil
}
