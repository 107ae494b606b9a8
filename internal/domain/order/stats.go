package order

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const UnknownCategory = "Ostatní"

// Summary - агрегаты для дашборда
type Summary struct {
	Count         int             `json:"count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	AverageProfit decimal.Decimal `json:"average_profit"`
	ByCategory    []CategoryTotal `json:"by_category"`
	Monthly       []MonthTotal    `json:"monthly"`
	Undated       int             `json:"undated"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   decimal.Decimal `json:"profit"`
}

type MonthTotal struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// Label - "Březen 2025"
func (m MonthTotal) Label() string {
	return MonthName(m.Month) + " " + strconv.Itoa(m.Year)
}

// Summarize считает итоги по списку заказов. Прибыль пересчитывается
// из денежных полей, сохраненному значению не доверяем.
func Summarize(orders []Order) Summary {
	s := Summary{
		TotalRevenue:  decimal.Zero,
		TotalProfit:   decimal.Zero,
		AverageProfit: decimal.Zero,
	}

	categories := make(map[string]*CategoryTotal)
	type monthKey struct {
		year  int
		month time.Month
	}
	months := make(map[monthKey]*MonthTotal)

	for _, o := range orders {
		profit := ComputeProfit(o.Revenue, o.Fee, o.Material, o.Helper, o.Fuel)

		s.Count++
		s.TotalRevenue = s.TotalRevenue.Add(o.Revenue)
		s.TotalProfit = s.TotalProfit.Add(profit)

		name := o.Category
		if name == "" {
			name = UnknownCategory
		}
		c, ok := categories[name]
		if !ok {
			c = &CategoryTotal{Category: name, Revenue: decimal.Zero, Profit: decimal.Zero}
			categories[name] = c
		}
		c.Count++
		c.Revenue = c.Revenue.Add(o.Revenue)
		c.Profit = c.Profit.Add(profit)

		fallbackYear := 0
		if !o.CreatedAt.IsZero() {
			fallbackYear = o.CreatedAt.Year()
		}
		d, ok := ParseDate(o.Date, fallbackYear)
		if !ok || d.Year == 0 {
			s.Undated++
			continue
		}
		k := monthKey{year: d.Year, month: d.Month}
		m, ok := months[k]
		if !ok {
			m = &MonthTotal{Year: d.Year, Month: d.Month, Revenue: decimal.Zero, Profit: decimal.Zero}
			months[k] = m
		}
		m.Count++
		m.Revenue = m.Revenue.Add(o.Revenue)
		m.Profit = m.Profit.Add(profit)
	}

	if s.Count > 0 {
		s.AverageProfit = s.TotalProfit.Div(decimal.NewFromInt(int64(s.Count))).Round(0)
	}

	for _, c := range categories {
		s.ByCategory = append(s.ByCategory, *c)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if !s.ByCategory[i].Profit.Equal(s.ByCategory[j].Profit) {
			return s.ByCategory[i].Profit.GreaterThan(s.ByCategory[j].Profit)
		}
		return s.ByCategory[i].Category < s.ByCategory[j].Category
	})

	for _, m := range months {
		s.Monthly = append(s.Monthly, *m)
	}
	sort.Slice(s.Monthly, func(i, j int) bool {
		if s.Monthly[i].Year != s.Monthly[j].Year {
			return s.Monthly[i].Year < s.Monthly[j].Year
		}
		return s.Monthly[i].Month < s.Monthly[j].Month
	})

	return s
}
