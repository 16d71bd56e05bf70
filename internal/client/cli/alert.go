package cli

import (
	"context"
	"fmt"

	"github.com/shenikar/safewalk/internal/client/api"
	v1 "github.com/shenikar/safewalk/internal/handler/http/v1"
	"github.com/spf13/cobra"
)

type alertFunc func(c *api.Client, ctx context.Context, token string, lat, lon float64) (*v1.AlertResponse, error)

func newSOSCommand(app func() *App) *cobra.Command {
	return newAlertCommand(app, "sos", "Text your location to every emergency contact", (*api.Client).SendSOS)
}

func newFalseAlarmCommand(app func() *App) *cobra.Command {
	return newAlertCommand(app, "false-alarm", "Tell your emergency contacts the last SOS was a false alarm", (*api.Client).SendFalseAlarm)
}

func newAlertCommand(app func() *App, use, short string, send alertFunc) *cobra.Command {
	var loc locationFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			s, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			result, err := send(a.api, cmd.Context(), s.Token, loc.lat, loc.lon)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Alert queued for %d recipient(s)\n", result.Recipients)
			if result.UsedDefaultContacts {
				fmt.Fprintln(cmd.OutOrStdout(), "You have no emergency contacts, the default emergency numbers were used")
			}
			return nil
		},
	}
	loc.register(cmd)
	return cmd
}
