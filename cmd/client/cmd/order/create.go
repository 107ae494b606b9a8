package order

import (
	"fmt"

	"paintpro/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var createFields fields

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать заказ",
	Long: `Создание заказа. Прибыль считается автоматически:
выручка - комиссия - материал - помощник - топливо.

Без сети заказ получает временный ID и уходит на сервер позже.`,
	Example: `  paintpro order create -n 42 -d "15. 3. 2025" -c Novák --revenue 5000 --fee 1000 --material 200 --fuel 100`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, owner, err := types.Session(cmd)
		if err != nil {
			return err
		}

		d, err := createFields.draft()
		if err != nil {
			return err
		}

		orders, err := app.Sync().CreateOrder(cmd.Context(), owner, d)
		if err != nil {
			return fmt.Errorf("ошибка создания заказа: %w", err)
		}

		status := app.Sync().Status()
		if types.JSON(cmd) {
			return types.PrintJSON(orders)
		}
		if status.QueueLength > 0 {
			fmt.Printf("✅ Заказ сохранен локально, ожидают отправки: %d\n", status.QueueLength)
		} else {
			fmt.Println("✅ Заказ создан")
		}
		return nil
	},
}

func init() {
	createFields.bind(CreateCmd)
}
