package cli

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	v1 "github.com/shenikar/safewalk/internal/handler/http/v1"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/spf13/cobra"
)

func newIncidentsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incidents",
		Short: "Community incident log",
	}
	cmd.AddCommand(
		newIncidentListCommand(app),
		newIncidentNearbyCommand(app),
		newIncidentShowCommand(app),
		newIncidentReportCommand(app),
		newIncidentCommentCommand(app),
		newIncidentWatchCommand(app),
	)
	return cmd
}

func newIncidentListCommand(app func() *App) *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List incidents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			s, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			incidents, err := a.api.ListIncidents(cmd.Context(), s.Token, page, pageSize)
			if err != nil {
				return err
			}
			printIncidents(cmd.OutOrStdout(), incidents)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "incidents per page")
	return cmd
}

func newIncidentNearbyCommand(app func() *App) *cobra.Command {
	var (
		loc    locationFlags
		radius float64
	)
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Incidents reported around a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			s, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			incidents, err := a.api.NearbyIncidents(cmd.Context(), s.Token, loc.lat, loc.lon, radius)
			if err != nil {
				return err
			}
			printIncidents(cmd.OutOrStdout(), incidents)
			return nil
		},
	}
	loc.register(cmd)
	cmd.Flags().Float64Var(&radius, "radius", 0, "radius in meters (server default when omitted)")
	return cmd
}

func newIncidentShowCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an incident with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid incident ID: %w", err)
			}
			a := app()
			s, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			incident, err := a.api.GetIncident(cmd.Context(), s.Token, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s [%s]\n", incident.Title, incident.Category)
			fmt.Fprintf(out, "by %s at %s (%f, %f)\n", incident.Username, incident.Timestamp.Local().Format("2006-01-02 15:04"), incident.Latitude, incident.Longitude)
			fmt.Fprintf(out, "\n%s\n", incident.Description)
			if len(incident.Comments) > 0 {
				fmt.Fprintln(out, "\nComments:")
				printComments(out, incident.Comments)
			}
			return nil
		},
	}
}

func newIncidentReportCommand(app func() *App) *cobra.Command {
	var loc locationFlags
	var title, description, category string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report an incident at a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			s, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			req := v1.CreateIncidentRequest{
				Title:       title,
				Description: description,
				Category:    category,
				Latitude:    &loc.lat,
				Longitude:   &loc.lon,
			}
			id, err := a.api.CreateIncident(cmd.Context(), s.Token, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reported incident %s\n", id)
			return nil
		},
	}
	loc.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "short title")
	cmd.Flags().StringVar(&description, "description", "", "what happened")
	cmd.Flags().StringVar(&category, "category", models.IncidentOther, "one of: "+strings.Join(models.IncidentCategories, ", "))
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newIncidentCommentCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "comment ID TEXT...",
		Short: "Comment on an incident",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid incident ID: %w", err)
			}
			a := app()
			s, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			comment, err := a.api.AddComment(cmd.Context(), s.Token, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment posted as %s\n", comment.Username)
			return nil
		},
	}
}

func newIncidentWatchCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the live incident feed until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			s, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return a.api.StreamIncidents(ctx, s.Token, func(kind string, event v1.FeedEventResponse) error {
				switch models.FeedEventKind(kind) {
				case models.FeedEventIncidents:
					fmt.Fprintf(out, "--- %d incident(s)\n", len(event.Incidents))
					printIncidents(out, event.Incidents)
				case models.FeedEventComments:
					if event.IncidentID != nil && len(event.Comments) > 0 {
						fmt.Fprintf(out, "--- comments on %s\n", *event.IncidentID)
						printComments(out, event.Comments)
					}
				case models.FeedEventError:
					fmt.Fprintf(cmd.ErrOrStderr(), "feed error: %s\n", event.Error)
				}
				return nil
			})
		},
	}
}

func printIncidents(out io.Writer, incidents []*v1.IncidentResponse) {
	if len(incidents) == 0 {
		fmt.Fprintln(out, "No incidents")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tCATEGORY\tTITLE\tBY")
	for _, i := range incidents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", i.ID, i.Timestamp.Local().Format("2006-01-02 15:04"), i.Category, i.Title, i.Username)
	}
	_ = w.Flush()
}

func printComments(out io.Writer, comments []*v1.CommentResponse) {
	for _, c := range comments {
		fmt.Fprintf(out, "  %s  %s: %s\n", c.Timestamp.Local().Format("2006-01-02 15:04"), c.Username, c.Content)
	}
}
