package order

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"paintpro/cmd/client/cmd/types"
	"paintpro/internal/domain/order"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// OrderCmd - родительская команда для работы с заказами
var OrderCmd = &cobra.Command{
	Use:     "order",
	Aliases: []string{"orders"},
	Short:   "Заказы",
	Long:    `Создание, просмотр, изменение и удаление заказов, итоги по прибыли.`,
}

// fields - флаги полей заказа, общие для create и update
type fields struct {
	number, date, category, client, address, typ, note string
	days                                               int
	files                                              []string
	revenue, fee, material, helper, fuel               string
}

func (f *fields) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.number, "number", "n", "", "номер заказа")
	fl.StringVarP(&f.date, "date", "d", "", `дата: "15. 3. 2025", "3. 2025" или "Březen"`)
	fl.StringVarP(&f.category, "category", "k", "", "druh - вид работ")
	fl.StringVarP(&f.client, "client", "c", "", "клиент")
	fl.StringVarP(&f.address, "address", "a", "", "адрес")
	fl.StringVarP(&f.typ, "type", "t", "", "тип объекта (byt, dům, ...)")
	fl.IntVar(&f.days, "days", 0, "срок выполнения, дней")
	fl.StringVar(&f.note, "note", "", "заметка")
	fl.StringSliceVar(&f.files, "file", nil, "вложение (можно несколько раз)")
	fl.StringVar(&f.revenue, "revenue", "", "выручка")
	fl.StringVar(&f.fee, "fee", "", "комиссия")
	fl.StringVar(&f.material, "material", "", "материал")
	fl.StringVar(&f.helper, "helper", "", "помощник")
	fl.StringVar(&f.fuel, "fuel", "", "топливо")
}

func (f *fields) draft() (order.Draft, error) {
	d := order.Draft{
		Number:       f.number,
		Date:         f.date,
		Category:     f.category,
		Client:       f.client,
		Address:      f.address,
		Type:         f.typ,
		DurationDays: f.days,
		Note:         f.note,
		Files:        f.files,
	}
	var err error
	for _, m := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"revenue", f.revenue, &d.Revenue},
		{"fee", f.fee, &d.Fee},
		{"material", f.material, &d.Material},
		{"helper", f.helper, &d.Helper},
		{"fuel", f.fuel, &d.Fuel},
	} {
		if *m.dst, err = parseMoney(m.name, m.raw); err != nil {
			return order.Draft{}, err
		}
	}
	return d, nil
}

// patch берет только явно заданные флаги
func (f *fields) patch(cmd *cobra.Command) (order.Patch, error) {
	var p order.Patch
	changed := cmd.Flags().Changed

	for _, s := range []struct {
		flag string
		val  string
		dst  **string
	}{
		{"number", f.number, &p.Number},
		{"date", f.date, &p.Date},
		{"category", f.category, &p.Category},
		{"client", f.client, &p.Client},
		{"address", f.address, &p.Address},
		{"type", f.typ, &p.Type},
		{"note", f.note, &p.Note},
	} {
		if changed(s.flag) {
			v := s.val
			*s.dst = &v
		}
	}
	if changed("days") {
		days := f.days
		p.DurationDays = &days
	}
	if changed("file") {
		p.Files = f.files
	}

	for _, m := range []struct {
		flag string
		raw  string
		dst  **decimal.Decimal
	}{
		{"revenue", f.revenue, &p.Revenue},
		{"fee", f.fee, &p.Fee},
		{"material", f.material, &p.Material},
		{"helper", f.helper, &p.Helper},
		{"fuel", f.fuel, &p.Fuel},
	} {
		if !changed(m.flag) {
			continue
		}
		v, err := parseMoney(m.flag, m.raw)
		if err != nil {
			return order.Patch{}, err
		}
		*m.dst = &v
	}
	return p, nil
}

// parseMoney принимает и десятичную запятую: "1500,50"
func parseMoney(name, raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: неверная сумма %q", name, raw)
	}
	return v.Round(2), nil
}

func printOrders(cmd *cobra.Command, orders []order.Order) error {
	if types.JSON(cmd) {
		return types.PrintJSON(orders)
	}
	if len(orders) == 0 {
		fmt.Println("Заказы не найдены")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\tID\tČíslo\tDatum\tDruh\tKlient\tTržba\tZisk\t\n")
	for _, o := range orders {
		mark := " "
		if o.ID.IsTemporary() {
			mark = "⏳"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			mark,
			o.ID.String(),
			o.Number,
			o.Date,
			types.Truncate(o.Category, 20),
			types.Truncate(o.Client, 24),
			o.Revenue.StringFixed(2),
			o.Profit.StringFixed(2),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nВсего заказов: %d\n", len(orders))
	return nil
}
