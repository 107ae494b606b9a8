package order

import (
	"fmt"
	"os"
	"text/tabwriter"

	"paintpro/cmd/client/cmd/types"
	"paintpro/internal/domain/order"

	"github.com/spf13/cobra"
)

var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Итоги: выручка, прибыль, по видам работ и месяцам",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, owner, err := types.Session(cmd)
		if err != nil {
			return err
		}

		s := order.Summarize(app.Sync().GetOrders(cmd.Context(), owner))
		if types.JSON(cmd) {
			return types.PrintJSON(s)
		}

		fmt.Println("📊 Итоги")
		fmt.Printf("  Заказов: %d\n", s.Count)
		fmt.Printf("  Выручка: %s\n", s.TotalRevenue.StringFixed(2))
		fmt.Printf("  Прибыль: %s\n", s.TotalProfit.StringFixed(2))
		fmt.Printf("  Средняя прибыль: %s\n", s.AverageProfit.String())

		if len(s.ByCategory) > 0 {
			fmt.Println("\nПо видам работ:")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, c := range s.ByCategory {
				fmt.Fprintf(w, "  %s\t%d\t%s\t%s\t\n", c.Category, c.Count, c.Revenue.StringFixed(2), c.Profit.StringFixed(2))
			}
			w.Flush()
		}

		if len(s.Monthly) > 0 || s.Undated > 0 {
			fmt.Println("\nПо месяцам:")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, m := range s.Monthly {
				fmt.Fprintf(w, "  %s\t%d\t%s\t%s\t\n", m.Label(), m.Count, m.Revenue.StringFixed(2), m.Profit.StringFixed(2))
			}
			if s.Undated > 0 {
				fmt.Fprintf(w, "  без даты\t%d\t\t\t\n", s.Undated)
			}
			w.Flush()
		}
		return nil
	},
}
