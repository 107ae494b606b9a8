package auth

import (
	"errors"
	"fmt"

	"paintpro/cmd/client/cmd/types"
	"paintpro/internal/domain/profile"

	"github.com/spf13/cobra"
)

var profileID string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти по PIN",
	Long: `Вход по PIN профиля.

Без сети PIN проверяется по профилям, сохраненным при прошлом входе.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		pin, err := types.ReadPin("PIN: ")
		if err != nil {
			return err
		}

		p, err := app.Auth().Login(cmd.Context(), pin, profileID)
		if err != nil {
			if errors.Is(err, profile.ErrInvalidAuth) {
				return fmt.Errorf("неверный PIN")
			}
			return fmt.Errorf("ошибка входа: %w", err)
		}

		u, _ := app.Auth().Current()
		fmt.Printf("✅ Добро пожаловать, %s!\n", p.Name)
		if u.Offline {
			fmt.Println("⚠️  Сервер недоступен, вход выполнен офлайн")
			return nil
		}

		fmt.Println("Синхронизация данных...")
		if _, err := app.Sync().ForceSync(cmd.Context(), p.ID); err != nil {
			fmt.Printf("⚠️  Предупреждение: ошибка синхронизации: %v\n", err)
			fmt.Println("Вы можете продолжить работу в офлайн-режиме")
		} else {
			fmt.Println("✓ Данные синхронизированы")
		}
		return nil
	},
}

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Auth().Logout(); err != nil {
			return err
		}
		fmt.Println("✅ Вы вышли")
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&profileID, "profile", "p", "", "ID профиля (см. paintpro auth profiles)")
}
