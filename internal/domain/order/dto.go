package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wire - представление заказа в HTTP API. Деньги передаются десятичной строкой.
type Wire struct {
	ID           string          `json:"id" doc:"Постоянный идентификатор"`
	OwnerID      string          `json:"owner_id"`
	Number       string          `json:"number"`
	Date         string          `json:"date"`
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

// CreateRequest - тело запроса на вставку заказа
type CreateRequest struct {
	Number       string          `json:"number,omitempty" maxLength:"64"`
	Date         string          `json:"date,omitempty" maxLength:"64"`
	Category     string          `json:"category,omitempty" maxLength:"128"`
	Client       string          `json:"client,omitempty" maxLength:"256"`
	Address      string          `json:"address,omitempty" maxLength:"512"`
	Type         string          `json:"type,omitempty" maxLength:"32"`
	DurationDays int             `json:"duration_days,omitempty" minimum:"0"`
	Note         string          `json:"note,omitempty"`
	Files        []string        `json:"files,omitempty"`
	Revenue      decimal.Decimal `json:"revenue,omitempty"`
	Fee          decimal.Decimal `json:"fee,omitempty"`
	Material     decimal.Decimal `json:"material,omitempty"`
	Helper       decimal.Decimal `json:"helper,omitempty"`
	Fuel         decimal.Decimal `json:"fuel,omitempty"`
	CreatedAt    time.Time       `json:"created_at,omitempty" doc:"Время создания на клиенте"`
}

// PatchRequest - тело запроса на частичное изменение
type PatchRequest struct {
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

// ToWire переводит заказ с постоянным идентификатором в формат API
func ToWire(o Order) Wire {
	return Wire{
		ID:           o.ID.Value(),
		OwnerID:      o.OwnerID,
		Number:       o.Number,
		Date:         o.Date,
		Category:     o.Category,
		Client:       o.Client,
		Address:      o.Address,
		Type:         o.Type,
		DurationDays: o.DurationDays,
		Note:         o.Note,
		Files:        o.Files,
		Revenue:      o.Revenue,
		Fee:          o.Fee,
		Material:     o.Material,
		Helper:       o.Helper,
		Fuel:         o.Fuel,
		Profit:       o.Profit,
		CreatedAt:    o.CreatedAt,
	}
}

// Order восстанавливает заказ из ответа сервера. Прибыль пересчитывается.
func (w Wire) Order() Order {
	o := Order{
		ID:           Durable(w.ID),
		OwnerID:      w.OwnerID,
		Number:       w.Number,
		Date:         w.Date,
		Category:     w.Category,
		Client:       w.Client,
		Address:      w.Address,
		Type:         w.Type,
		DurationDays: w.DurationDays,
		Note:         w.Note,
		Files:        w.Files,
		Revenue:      w.Revenue.Round(2),
		Fee:          w.Fee.Round(2),
		Material:     w.Material.Round(2),
		Helper:       w.Helper.Round(2),
		Fuel:         w.Fuel.Round(2),
		CreatedAt:    w.CreatedAt,
	}
	o.Recalculate()
	return o
}

// NewCreateRequest готовит запрос на вставку из локальной записи
func NewCreateRequest(o Order) CreateRequest {
	return CreateRequest{
		Number:       o.Number,
		Date:         o.Date,
		Category:     o.Category,
		Client:       o.Client,
		Address:      o.Address,
		Type:         o.Type,
		DurationDays: o.DurationDays,
		Note:         o.Note,
		Files:        o.Files,
		Revenue:      o.Revenue,
		Fee:          o.Fee,
		Material:     o.Material,
		Helper:       o.Helper,
		Fuel:         o.Fuel,
		CreatedAt:    o.CreatedAt,
	}
}

func (r CreateRequest) Draft() Draft {
	return Draft{
		Number:       r.Number,
		Date:         r.Date,
		Category:     r.Category,
		Client:       r.Client,
		Address:      r.Address,
		Type:         r.Type,
		DurationDays: r.DurationDays,
		Note:         r.Note,
		Files:        r.Files,
		Revenue:      r.Revenue.Round(2),
		Fee:          r.Fee.Round(2),
		Material:     r.Material.Round(2),
		Helper:       r.Helper.Round(2),
		Fuel:         r.Fuel.Round(2),
	}
}

// NewPatchRequest переводит патч в формат API
func NewPatchRequest(p Patch) PatchRequest {
	return PatchRequest{
		Number:       p.Number,
		Date:         p.Date,
		Category:     p.Category,
		Client:       p.Client,
		Address:      p.Address,
		Type:         p.Type,
		DurationDays: p.DurationDays,
		Note:         p.Note,
		Files:        p.Files,
		Revenue:      p.Revenue,
		Fee:          p.Fee,
		Material:     p.Material,
		Helper:       p.Helper,
		Fuel:         p.Fuel,
	}
}

func (r PatchRequest) Patch() Patch {
	return Patch{
		Number:       r.Number,
		Date:         r.Date,
		Category:     r.Category,
		Client:       r.Client,
		Address:      r.Address,
		Type:         r.Type,
		DurationDays: r.DurationDays,
		Note:         r.Note,
		Files:        r.Files,
		Revenue:      rounded(r.Revenue),
		Fee:          rounded(r.Fee),
		Material:     rounded(r.Material),
		Helper:       rounded(r.Helper),
		Fuel:         rounded(r.Fuel),
	}
}

func rounded(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := d.Round(2)
	return &v
}

// ListResponse - тело ответа со списком заказов владельца
type ListResponse struct {
	Orders []Wire `json:"orders"`
}
