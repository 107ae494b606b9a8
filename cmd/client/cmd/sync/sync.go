package sync

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"paintpro/cmd/client/cmd/types"
	"paintpro/internal/domain/sync"

	"github.com/spf13/cobra"
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Управление синхронизацией",
	Long: `Синхронизация локальных изменений с сервером.

Без подкоманды выполняет полную синхронизацию: отправка очереди и
загрузка заказов с сервера.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, owner, err := types.Session(cmd)
		if err != nil {
			return err
		}

		start := time.Now()
		orders, err := app.Sync().ForceSync(cmd.Context(), owner)
		if err != nil {
			return fmt.Errorf("ошибка синхронизации: %w", err)
		}

		if types.JSON(cmd) {
			return types.PrintJSON(app.Sync().Status())
		}
		fmt.Println("✅ Синхронизация завершена")
		fmt.Printf("Время выполнения: %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("Заказов: %d\n", len(orders))
		if n := app.Sync().Status().QueueLength; n > 0 {
			fmt.Printf("⚠️  В очереди осталось операций: %d\n", n)
		}
		return nil
	},
}

var RunCmd = &cobra.Command{
	Use:     "run",
	Aliases: []string{"push"},
	Short:   "Отправить очередь на сервер",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		res := app.Sync().Drain(cmd.Context())
		if types.JSON(cmd) {
			return types.PrintJSON(res)
		}
		printDrain(res)
		return nil
	},
}

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Статус синхронизации",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		st := app.Sync().Status()
		if types.JSON(cmd) {
			return types.PrintJSON(st)
		}
		printStatus(st)
		return nil
	},
}

var CleanCmd = &cobra.Command{
	Use:     "clean",
	Aliases: []string{"dedupe"},
	Short:   "Удалить дубликаты заказов на сервере",
	Long: `Ищет заказы с одинаковым номером, датой и клиентом,
оставляет самый ранний и удаляет остальные.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, owner, err := types.Session(cmd)
		if err != nil {
			return err
		}

		n, err := app.Sync().CleanDuplicates(cmd.Context(), owner)
		if err != nil {
			return fmt.Errorf("ошибка очистки дубликатов: %w", err)
		}
		if types.JSON(cmd) {
			return types.PrintJSON(map[string]int{"removed": n})
		}
		if n == 0 {
			fmt.Println("Дубликаты не найдены")
			return nil
		}
		fmt.Printf("✅ Удалено дубликатов: %d\n", n)
		return nil
	},
}

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Фоновая синхронизация до Ctrl+C",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		fmt.Println("Синхронизация в фоне, Ctrl+C для выхода")
		return app.Run(cmd.Context())
	},
}

const reloginHint = "🔑 Сервер не принял сессию, очередь ждет входа. Выполните: paintpro auth login"

func printDrain(res sync.DrainResult) {
	switch {
	case res.Skipped:
		fmt.Println("Синхронизация уже выполняется")
		return
	case errors.Is(res.Err, sync.ErrAuth):
		fmt.Println(reloginHint)
	case res.Err != nil && !res.Aborted():
		fmt.Printf("⚠️  Очередь не отправлена: %v\n", res.Err)
	case res.Aborted():
		fmt.Printf("⚠️  Проход прерван: %v\n", res.Err)
	default:
		fmt.Println("✅ Очередь обработана")
	}
	fmt.Printf("Отправлено: %d\n", res.Processed)
	if res.Failed > 0 {
		fmt.Printf("Ошибок: %d\n", res.Failed)
	}
	if res.DeadLettered > 0 {
		fmt.Printf("Отброшено после всех попыток: %d\n", res.DeadLettered)
	}
	fmt.Printf("Осталось в очереди: %d\n", res.Remaining)
}

func printStatus(st sync.Status) {
	online := "🔴 нет связи"
	if st.Online {
		online = "🟢 онлайн"
	}
	fmt.Println("=== Статус синхронизации ===")
	fmt.Printf("Сервер: %s\n", online)
	fmt.Printf("Состояние: %s\n", st.DrainState)
	fmt.Printf("В очереди: %d\n", st.QueueLength)
	if st.NeedsLogin {
		fmt.Println(reloginHint)
	}
	if st.LastSyncTime.IsZero() {
		fmt.Println("Последняя синхронизация: никогда")
	} else {
		fmt.Printf("Последняя синхронизация: %s (%s назад)\n",
			st.LastSyncTime.Format("2006-01-02 15:04:05"),
			time.Since(st.LastSyncTime).Round(time.Second))
	}

	if len(st.Errors) > 0 {
		fmt.Println("\nОшибки:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, e := range st.Errors {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t\n",
				e.Timestamp.Format("15:04:05"), e.Operation, e.Class, e.RecordID, types.Truncate(e.Message, 60))
		}
		w.Flush()
	}

	if len(st.DeadLetters) > 0 {
		fmt.Println("\nОтброшенные операции:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, d := range st.DeadLetters {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t\n",
				d.FailedAt.Format("2006-01-02 15:04"), d.Operation.Kind, d.Operation.Target, types.Truncate(d.Error, 60))
		}
		w.Flush()
	}
}
