// Package types - общие помощники команд клиента
package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"paintpro/internal/app/client"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type contextKey string

const ClientAppKey contextKey = "app"

var ErrNoApp = errors.New("приложение не инициализировано")

func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, ClientAppKey, app)
}

// App достает клиента, собранного в PersistentPreRunE
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}

// Session - клиент и id вошедшего профиля
func Session(cmd *cobra.Command) (*client.App, string, error) {
	app, err := App(cmd)
	if err != nil {
		return nil, "", err
	}
	owner, err := app.Owner()
	if err != nil {
		if errors.Is(err, client.ErrNotLoggedIn) {
			return nil, "", fmt.Errorf("требуется вход. Выполните: paintpro auth login")
		}
		return nil, "", err
	}
	return app, owner, nil
}

// JSON - включен ли глобальный флаг --json
func JSON(cmd *cobra.Command) bool {
	v, err := cmd.Root().PersistentFlags().GetBool("json")
	return err == nil && v
}

func PrintJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// ReadPin читает PIN без эха
func ReadPin(prompt string) (string, error) {
	fmt.Print(prompt)
	pin, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("ошибка чтения PIN: %w", err)
	}
	return strings.TrimSpace(string(pin)), nil
}

func Truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-1]) + "…"
}
