package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-tripplanner/internal/pkg/geo"
)

var maplinkCmd = &cobra.Command{
	Use:   "maplink PLACE...",
	Short: "Print the map view link for an itinerary",
	Long: `Print the map view link for an itinerary without calling the backend.
Each PLACE is written as NAME@LAT,LON.

Example:
  tripplanner maplink "Eiffel Tower@48.8584,2.2945" "Louvre@48.8606,2.3376"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMaplink,
}

var maplinkCenter bool

func init() {
	rootCmd.AddCommand(maplinkCmd)
	maplinkCmd.Flags().BoolVar(&maplinkCenter, "center", false, "also print the centroid of the itinerary")
}

func runMaplink(cmd *cobra.Command, args []string) error {
	places, err := parsePlaceArgs(args)
	if err != nil {
		return err
	}

	coord := newCoordinator(cfg)
	for _, p := range places {
		coord.Add(p)
	}
	snap, err := coord.Navigate(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, snap.MapURL)
	if maplinkCenter {
		coords := make([][2]float64, 0, len(snap.Trip))
		for _, p := range snap.Trip {
			coords = append(coords, [2]float64{p.Lat, p.Lon})
		}
		lat, lon := geo.CalculateCenterPoint(coords, 0, 0)
		fmt.Fprintf(out, "center: %s\n", geo.FormatCoordinatesDisplay(lat, lon))
	}
	return nil
}
