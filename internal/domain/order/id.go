package order

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDKind - стадия жизненного цикла идентификатора заказа
type IDKind uint8

const (
	// KindTemporary - идентификатор выдан клиентом до подтверждения сервером
	KindTemporary IDKind = iota + 1
	// KindDurable - идентификатор присвоен удаленным хранилищем
	KindDurable
)

const tempTextPrefix = "tmp:"

// ID - идентификатор заказа: Temporary(token) | Durable(externalID).
// Нулевое значение не адресует ни одну запись.
type ID struct {
	kind  IDKind
	value string
}

// Temporary создает временный идентификатор из готового токена
func Temporary(token string) ID {
	return ID{kind: KindTemporary, value: token}
}

// Durable создает постоянный идентификатор удаленного хранилища
func Durable(value string) ID {
	return ID{kind: KindDurable, value: value}
}

// NewTemporaryID генерирует токен вида <unix-ms>_<owner>_<suffix>.
// Суффикс берется из UUID, поэтому токены не повторяются в пределах сессии.
func NewTemporaryID(ownerID string, now time.Time) ID {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return Temporary(strconv.FormatInt(now.UnixMilli(), 10) + "_" + ownerID + "_" + suffix)
}

func (id ID) Kind() IDKind { return id.kind }
func (id ID) Value() string { return id.value }
func (id ID) IsZero() bool { return id.kind == 0 }
func (id ID) IsTemporary() bool { return id.kind == KindTemporary }
func (id ID) IsDurable() bool { return id.kind == KindDurable }
func (id ID) Equal(other ID) bool { return id == other }

func (id ID) String() string {
	switch id.kind {
	case KindTemporary:
		return tempTextPrefix + id.value
	case KindDurable:
		return id.value
	default:
		return ""
	}
}

// ParseID разбирает текстовую форму, которую выводит String.
// Используется только на границе CLI.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, fmt.Errorf("%w: empty id", ErrInvalidID)
	}
	if token, ok := strings.CutPrefix(s, tempTextPrefix); ok {
		if token == "" {
			return ID{}, fmt.Errorf("%w: empty temporary token", ErrInvalidID)
		}
		return Temporary(token), nil
	}
	return Durable(s), nil
}

type idJSON struct {
	Temporary string `json:"temporary,omitempty"`
	Durable   string `json:"durable,omitempty"`
}

func (id ID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case KindTemporary:
		return json.Marshal(idJSON{Temporary: id.value})
	case KindDurable:
		return json.Marshal(idJSON{Durable: id.value})
	default:
		return []byte("null"), nil
	}
}

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ID{}
		return nil
	}

	var v idJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	switch {
	case v.Temporary != "" && v.Durable != "":
		return fmt.Errorf("%w: both temporary and durable set", ErrInvalidID)
	case v.Temporary != "":
		*id = Temporary(v.Temporary)
	case v.Durable != "":
		*id = Durable(v.Durable)
	default:
		*id = ID{}
	}
	return nil
}
