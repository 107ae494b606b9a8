package auth

import (
	"errors"
	"fmt"

	"paintpro/cmd/client/cmd/types"
	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/sync"

	"github.com/spf13/cobra"
)

var PinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Сменить PIN",
	Long: `Смена PIN текущего профиля. Нужна связь с сервером.

Новый PIN сразу работает и для офлайн-входа.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _, err := types.Session(cmd)
		if err != nil {
			return err
		}

		oldPin, err := types.ReadPin("Текущий PIN: ")
		if err != nil {
			return err
		}
		newPin, err := types.ReadPin("Новый PIN: ")
		if err != nil {
			return err
		}
		confirm, err := types.ReadPin("Повторите новый PIN: ")
		if err != nil {
			return err
		}
		if newPin != confirm {
			return fmt.Errorf("PIN не совпадают")
		}
		if err := profile.NewPinValidator().ValidatePin(newPin); err != nil {
			return err
		}

		err = app.Auth().ChangePin(cmd.Context(), oldPin, newPin)
		switch {
		case errors.Is(err, sync.ErrOffline):
			return fmt.Errorf("сервер недоступен, сменить PIN можно только онлайн")
		case errors.Is(err, profile.ErrInvalidAuth):
			return fmt.Errorf("неверный текущий PIN или офлайн-сессия, войдите заново")
		case err != nil:
			return err
		}

		fmt.Println("✅ PIN изменен")
		return nil
	},
}
