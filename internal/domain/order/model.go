package order

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultType         = "byt"
	DefaultDurationDays = 1
)

// Order - заказ (zakázka) малярной фирмы
type Order struct {
	ID           ID              `json:"id"`
	OwnerID      string          `json:"owner_id"`
	Number       string          `json:"number"` // внешний номер, не уникален
	Date         string          `json:"date"`   // произвольная строка: "15. 3. 2025", "3. 2025", "Březen"
	Category     string          `json:"category"`
	Client       string          `json:"client"`
	Address      string          `json:"address"`
	Type         string          `json:"type"`
	DurationDays int             `json:"duration_days"`
	Note         string          `json:"note"`
	Files        []string        `json:"files"`
	Revenue      decimal.Decimal `json:"revenue"`
	Fee          decimal.Decimal `json:"fee"`
	Material     decimal.Decimal `json:"material"`
	Helper       decimal.Decimal `json:"helper"`
	Fuel         decimal.Decimal `json:"fuel"`
	Profit       decimal.Decimal `json:"profit"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Draft - данные нового заказа от пользователя
type Draft struct {
	Number       string
	Date         string
	Category     string
	Client       string
	Address      string
	Type         string
	DurationDays int
	Note         string
	Files        []string
	Revenue      decimal.Decimal
	Fee          decimal.Decimal
	Material     decimal.Decimal
	Helper       decimal.Decimal
	Fuel         decimal.Decimal
}

// Patch - частичное изменение заказа. Nil-поле означает "не менять".
// Прибыли здесь нет: она всегда пересчитывается.
type Patch struct {
	Number       *string          `json:"number,omitempty"`
	Date         *string          `json:"date,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Client       *string          `json:"client,omitempty"`
	Address      *string          `json:"address,omitempty"`
	Type         *string          `json:"type,omitempty"`
	DurationDays *int             `json:"duration_days,omitempty"`
	Note         *string          `json:"note,omitempty"`
	Files        []string         `json:"files,omitempty"`
	Revenue      *decimal.Decimal `json:"revenue,omitempty"`
	Fee          *decimal.Decimal `json:"fee,omitempty"`
	Material     *decimal.Decimal `json:"material,omitempty"`
	Helper       *decimal.Decimal `json:"helper,omitempty"`
	Fuel         *decimal.Decimal `json:"fuel,omitempty"`
}

// ComputeProfit считает прибыль: выручка − комиссия − материал − помощник − топливо
func ComputeProfit(revenue, fee, material, helper, fuel decimal.Decimal) decimal.Decimal {
	return revenue.Sub(fee).Sub(material).Sub(helper).Sub(fuel)
}

// New собирает заказ из черновика и сразу считает прибыль.
// Время создания округляется до миллисекунд, чтобы пережить хранение в БД.
func New(ownerID string, id ID, d Draft, createdAt time.Time) Order {
	o := Order{
		ID:           id,
		OwnerID:      ownerID,
		Number:       strings.TrimSpace(d.Number),
		Date:         strings.TrimSpace(d.Date),
		Category:     strings.TrimSpace(d.Category),
		Client:       strings.TrimSpace(d.Client),
		Address:      strings.TrimSpace(d.Address),
		Type:         d.Type,
		DurationDays: d.DurationDays,
		Note:         d.Note,
		Files:        slices.Clone(d.Files),
		Revenue:      d.Revenue,
		Fee:          d.Fee,
		Material:     d.Material,
		Helper:       d.Helper,
		Fuel:         d.Fuel,
		CreatedAt:    createdAt.UTC().Truncate(time.Millisecond),
	}
	if o.Type == "" {
		o.Type = DefaultType
	}
	if o.DurationDays <= 0 {
		o.DurationDays = DefaultDurationDays
	}
	o.Recalculate()
	return o
}

// Recalculate пересчитывает производное поле прибыли
func (o *Order) Recalculate() {
	o.Profit = ComputeProfit(o.Revenue, o.Fee, o.Material, o.Helper, o.Fuel)
}

// Validate проверяет денежные поля
func (o Order) Validate() error {
	for _, v := range []decimal.Decimal{o.Revenue, o.Fee, o.Material, o.Helper, o.Fuel} {
		if v.IsNegative() {
			return ErrInvalidData
		}
	}
	return nil
}

// IsEmpty - патч ничего не меняет
func (p Patch) IsEmpty() bool {
	return p.Number == nil && p.Date == nil && p.Category == nil && p.Client == nil &&
		p.Address == nil && p.Type == nil && p.DurationDays == nil && p.Note == nil &&
		p.Files == nil && p.Revenue == nil && p.Fee == nil && p.Material == nil &&
		p.Helper == nil && p.Fuel == nil
}

// Apply возвращает копию заказа с примененным патчем и пересчитанной прибылью
func (p Patch) Apply(o Order) Order {
	setString(&o.Number, p.Number)
	setString(&o.Date, p.Date)
	setString(&o.Category, p.Category)
	setString(&o.Client, p.Client)
	setString(&o.Address, p.Address)
	setString(&o.Type, p.Type)
	setString(&o.Note, p.Note)
	if p.DurationDays != nil {
		o.DurationDays = *p.DurationDays
	}
	if p.Files != nil {
		o.Files = slices.Clone(p.Files)
	} else {
		o.Files = slices.Clone(o.Files)
	}
	setDecimal(&o.Revenue, p.Revenue)
	setDecimal(&o.Fee, p.Fee)
	setDecimal(&o.Material, p.Material)
	setDecimal(&o.Helper, p.Helper)
	setDecimal(&o.Fuel, p.Fuel)

	o.Recalculate()
	return o
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

// SameContent сравнивает содержимое двух версий одного заказа
func (o Order) SameContent(other Order) bool {
	return o.ID == other.ID &&
		o.OwnerID == other.OwnerID &&
		o.Number == other.Number &&
		o.Date == other.Date &&
		o.Category == other.Category &&
		o.Client == other.Client &&
		o.Address == other.Address &&
		o.Type == other.Type &&
		o.DurationDays == other.DurationDays &&
		o.Note == other.Note &&
		slices.Equal(o.Files, other.Files) &&
		o.Revenue.Equal(other.Revenue) &&
		o.Fee.Equal(other.Fee) &&
		o.Material.Equal(other.Material) &&
		o.Helper.Equal(other.Helper) &&
		o.Fuel.Equal(other.Fuel) &&
		o.Profit.Equal(other.Profit) &&
		o.CreatedAt.Equal(other.CreatedAt)
}

// Timestamp - нормализованное время создания для last-writer-wins.
// Если created_at пуст, берется дата из поля Date (первое число месяца,
// если день неизвестен). Если и она не разбирается - нулевое время.
func (o Order) Timestamp() time.Time {
	if !o.CreatedAt.IsZero() {
		return o.CreatedAt.UTC()
	}
	d, ok := ParseDate(o.Date, 0)
	if !ok || d.Year == 0 {
		return time.Time{}
	}
	day := d.Day
	if day == 0 {
		day = 1
	}
	return time.Date(d.Year, d.Month, day, 0, 0, 0, 0, time.UTC)
}
