package cmd

import (
	"fmt"
	"path/filepath"

	"paintpro/cmd/client/cmd/auth"
	"paintpro/cmd/client/cmd/order"
	"paintpro/cmd/client/cmd/sync"
	"paintpro/cmd/client/cmd/types"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Первоначальная настройка клиента",
	Long: `Команда init сохраняет адрес сервера в ~/.paintpro/config.yaml
и проверяет соединение.

Без сервера клиент тоже работает: заказы копятся локально.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		path := viper.ConfigFileUsed()
		if path == "" {
			path = filepath.Join(cfg.ConfigDir, "config.yaml")
		}
		viper.Set("server_address", cfg.ServerAddress)
		viper.Set("enable_tls", cfg.EnableTLS)
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("ошибка записи конфигурации: %w", err)
		}
		fmt.Printf("✓ Конфигурация сохранена: %s\n", path)

		fmt.Println("Проверка соединения с сервером...")
		if app.Monitor().IsOnline() {
			fmt.Println("✓ Соединение с сервером установлено")
		} else {
			fmt.Printf("⚠️  Сервер %s недоступен, работа будет идти офлайн\n", cfg.ServerAddress)
		}

		fmt.Println()
		fmt.Println("Что дальше:")
		fmt.Println("1. Войдите: paintpro auth login")
		fmt.Println("2. Добавьте заказ: paintpro order create --number 1 --revenue 5000")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.PinCmd)
	auth.AuthCmd.AddCommand(auth.WhoamiCmd)
	auth.AuthCmd.AddCommand(auth.ProfilesCmd)

	rootCmd.AddCommand(order.OrderCmd)
	order.OrderCmd.AddCommand(order.CreateCmd)
	order.OrderCmd.AddCommand(order.ListCmd)
	order.OrderCmd.AddCommand(order.UpdateCmd)
	order.OrderCmd.AddCommand(order.DeleteCmd)
	order.OrderCmd.AddCommand(order.StatsCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	sync.SyncCmd.AddCommand(sync.RunCmd)
	sync.SyncCmd.AddCommand(sync.StatusCmd)
	sync.SyncCmd.AddCommand(sync.CleanCmd)
	sync.SyncCmd.AddCommand(sync.WatchCmd)
}

