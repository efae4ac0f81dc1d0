package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/pkg/geo"
)

var routeCmd = &cobra.Command{
	Use:   "route ALGORITHM PLACE...",
	Short: "Route an itinerary with dijkstra or astar",
	Long: `Send an itinerary to the backend's dijkstra or astar endpoint and print
the visiting order with the total distance and travel time.
Each PLACE is written as NAME@LAT,LON.

Example:
  tripplanner route astar "Eiffel Tower@48.8584,2.2945" "Louvre@48.8606,2.3376" "Orsay@48.86,2.3266"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	algorithm, err := models.ParseAlgorithm(args[0])
	if err != nil {
		return err
	}
	places, err := parsePlaceArgs(args[1:])
	if err != nil {
		return err
	}

	coord := newCoordinator(cfg)
	for _, p := range places {
		coord.Add(p)
	}
	if _, err := coord.Navigate(cmd.Context()); err != nil {
		return err
	}
	snap, err := coord.RequestRoute(cmd.Context(), algorithm)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, p := range snap.Path {
		line := fmt.Sprintf("%2d. %s", i+1, p.Name)
		if i > 0 {
			prev := snap.Path[i-1]
			line += fmt.Sprintf(" (+%.2f km straight line)", geo.HaversineDistance(prev.Lat, prev.Lon, p.Lat, p.Lon)/1000)
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Route: %s\n", snap.Route.Type)
	fmt.Fprintf(out, "Total distance: %s\n", snap.Route.DistanceText())
	fmt.Fprintf(out, "Total time: %s\n", snap.Route.TimeText())
	return nil
}
