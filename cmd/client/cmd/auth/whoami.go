package auth

import (
	"fmt"
	"os"
	"text/tabwriter"

	"paintpro/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Текущий профиль",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		u, err := app.Auth().Current()
		if err != nil {
			fmt.Println("Вход не выполнен")
			return nil
		}

		if types.JSON(cmd) {
			u.Token = ""
			return types.PrintJSON(u)
		}

		mode := "онлайн"
		if u.Offline {
			mode = "офлайн"
		}
		fmt.Printf("%s %s (%s)\n", u.Profile.Avatar, u.Profile.Name, u.Profile.ID)
		fmt.Printf("Вход: %s, %s\n", u.LoggedInAt.Local().Format("2006-01-02 15:04"), mode)
		if u.Profile.IsAdmin {
			fmt.Println("Администратор")
		}
		return nil
	},
}

var ProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Профили для входа",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		profiles := app.Auth().Profiles(cmd.Context())

		if types.JSON(cmd) {
			return types.PrintJSON(profiles)
		}
		if len(profiles) == 0 {
			fmt.Println("Профили не найдены. Нужна связь с сервером")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tИмя\tАдмин\t\n")
		for _, p := range profiles {
			admin := ""
			if p.IsAdmin {
				admin = "✓"
			}
			fmt.Fprintf(w, "%s\t%s %s\t%s\t\n", p.ID, p.Avatar, p.Name, admin)
		}
		return w.Flush()
	},
}
