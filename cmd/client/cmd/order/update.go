package order

import (
	"fmt"

	"paintpro/cmd/client/cmd/types"
	"paintpro/internal/domain/order"

	"github.com/spf13/cobra"
)

var updateFields fields

var UpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Изменить заказ",
	Long:    `Меняет только переданные поля. Прибыль пересчитывается.`,
	Example: `  paintpro order update 0b6f1c2e-8d4a-4f3e-9a71-5c2d8e4b7f10 --fee 1200 --note "druhá vrstva"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, owner, err := types.Session(cmd)
		if err != nil {
			return err
		}

		id, err := order.ParseID(args[0])
		if err != nil {
			return err
		}
		p, err := updateFields.patch(cmd)
		if err != nil {
			return err
		}
		if p.IsEmpty() {
			return fmt.Errorf("не задано ни одного поля")
		}

		orders, err := app.Sync().UpdateOrder(cmd.Context(), owner, id, p)
		if err != nil {
			return fmt.Errorf("ошибка изменения заказа: %w", err)
		}
		if types.JSON(cmd) {
			return types.PrintJSON(orders)
		}
		fmt.Println("✅ Заказ изменен")
		return nil
	},
}

func init() {
	updateFields.bind(UpdateCmd)
}
