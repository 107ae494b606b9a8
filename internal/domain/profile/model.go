package profile

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const DefaultAdminID = "admin_1"

// Profile - профиль пользователя, выбираемый на экране входа
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Color     string    `json:"color"`
	PinHash   string    `json:"pin_hash,omitempty"` // bcrypt
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Public возвращает копию без хэша PIN
func (p Profile) Public() Profile {
	p.PinHash = ""
	return p
}

// HashPin хэширует PIN через bcrypt
func HashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPin сверяет PIN с хэшем профиля
func (p Profile) CheckPin(pin string) bool {
	if p.PinHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PinHash), []byte(pin)) == nil
}

// MatchPin ищет профиль по PIN. Если profileID задан, проверяется только он.
// Используется и сервером, и клиентом при офлайн-входе.
func MatchPin(profiles []Profile, pin, profileID string) (Profile, error) {
	for _, p := range profiles {
		if profileID != "" && p.ID != profileID {
			continue
		}
		if p.CheckPin(pin) {
			return p, nil
		}
	}
	return Profile{}, ErrInvalidAuth
}
