package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для входа и профилей
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Вход и профили",
	Long:  `Вход по PIN, выход, смена PIN и список профилей.`,
}
