package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"paintpro/cmd/client/cmd/types"
	"paintpro/internal/app/client"
	"paintpro/internal/app/client/config"
	"paintpro/internal/utils/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

var (
	cfgFile    string
	cfg        *config.Config
	log        *slog.Logger
	logCloser  io.Closer
	app        *client.App
	debug      bool
	jsonOutput bool
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "paintpro",
	Short: "PaintPro - учет заказов малярной фирмы",
	Long: `PaintPro ведет заказы, расходы и прибыль.

Работает и без сети: изменения сохраняются локально и уходят
на сервер, как только появляется связь.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	env := cfg.Env
	if debug && cfg.IsProd() {
		env = "dev"
	}
	log, logCloser = logger.NewFile(env, cfg.LogPath)

	app, err = client.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}
	app.Start(cmd.Context())

	cmd.SetContext(types.WithApp(cmd.Context(), app))
	return nil
}

// shutdown дожидается фоновой отправки очереди и закрывает базу
func shutdown() {
	if app != nil {
		app.Sync().Wait()
		if err := app.Close(); err != nil {
			log.Error("Не удалось закрыть клиента", "error", err)
		}
	}
	if logCloser != nil {
		_ = logCloser.Close()
	}
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		viper.AddConfigPath(filepath.Join(home, ".paintpro"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return config.Load()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (по умолчанию ~/.paintpro/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "подробный лог даже в prod")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера PaintPro")
}
