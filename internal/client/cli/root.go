package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute разбирает аргументы, выполняет команду и закрывает локальный кэш
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, current := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if app := current(); app != nil {
		if closeErr := app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

// newRootCommand собирает дерево команд; current отдает App после PersistentPreRunE
func newRootCommand() (*cobra.Command, func() *App) {
	v := viper.New()
	var app *App

	root := &cobra.Command{
		Use:           "safewalk",
		Short:         "SafeWalk personal safety client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := Config{
				Server:   v.GetString("server"),
				Store:    v.GetString("store"),
				KeyFile:  v.GetString("key-file"),
				LogLevel: v.GetString("log-level"),
			}
			var err error
			app, err = newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			return err
		},
	}

	home := defaultHome()
	flags := root.PersistentFlags()
	flags.String("server", "http://localhost:8080/api/v1", "SafeWalk API base URL")
	flags.String("store", filepath.Join(home, "credentials.db"), "credential cache database")
	flags.String("key-file", filepath.Join(home, "device.key"), "device key for the credential cache")
	flags.String("log-level", "warn", "log level")

	v.SetEnvPrefix("SAFEWALK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	current := func() *App { return app }
	root.AddCommand(
		newRegisterCommand(current),
		newLoginCommand(current),
		newLogoutCommand(current),
		newWhoamiCommand(current),
		newContactsCommand(current),
		newPlacesCommand(current),
		newGeocodeCommand(current),
		newSOSCommand(current),
		newFalseAlarmCommand(current),
		newIncidentsCommand(current),
	)
	return root, current
}

func defaultHome() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".safewalk"
	}
	return filepath.Join(dir, "safewalk")
}
