package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type locationFlags struct {
	lat, lon float64
}

func (l *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&l.lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&l.lon, "lon", 0, "longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}

func newPlacesCommand(app func() *App) *cobra.Command {
	var (
		loc    locationFlags
		radius float64
	)
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Find police stations, hospitals, pharmacies and fire stations nearby",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			s, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			result, err := a.api.NearbyPlaces(cmd.Context(), s.Token, loc.lat, loc.lon, radius)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Places) == 0 {
				fmt.Fprintln(out, "No safe places found nearby")
			} else {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "DISTANCE\tCATEGORY\tNAME\tRATING")
				for _, p := range result.Places {
					rating := "-"
					if p.Rating != nil {
						rating = fmt.Sprintf("%.1f", *p.Rating)
					}
					fmt.Fprintf(w, "%.0f m\t%s\t%s\t%s\n", p.DistanceMeters, p.Category, p.Name, rating)
				}
				_ = w.Flush()
			}
			for category, reason := range result.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s search failed: %s\n", strings.ReplaceAll(category, "_", " "), reason)
			}
			return nil
		},
	}
	loc.register(cmd)
	cmd.Flags().Float64Var(&radius, "radius", 0, "search radius in meters (server default when omitted)")
	return cmd
}

func newGeocodeCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "geocode ADDRESS",
		Short: "Resolve an address to coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			s, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			point, err := a.api.Geocode(cmd.Context(), s.Token, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%f, %f\n", point.Latitude, point.Longitude)
			return nil
		},
	}
}
