package order

import (
	"paintpro/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список заказов",
	Long: `Список заказов текущего профиля.

При связи данные сливаются с сервером, без связи показывается локальная копия.
Заказы, еще не отправленные на сервер, отмечены ⏳.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, owner, err := types.Session(cmd)
		if err != nil {
			return err
		}
		return printOrders(cmd, app.Sync().GetOrders(cmd.Context(), owner))
	},
}
