package order

import (
	"fmt"

	"paintpro/cmd/client/cmd/types"
	"paintpro/internal/domain/order"

	"github.com/spf13/cobra"
)

var DeleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Удалить заказы",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, owner, err := types.Session(cmd)
		if err != nil {
			return err
		}

		for _, arg := range args {
			id, err := order.ParseID(arg)
			if err != nil {
				return err
			}
			if _, err := app.Sync().DeleteOrder(cmd.Context(), owner, id); err != nil {
				return fmt.Errorf("ошибка удаления %s: %w", arg, err)
			}
			fmt.Printf("✅ Удален %s\n", id)
		}
		return nil
	},
}
