package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-tripplanner/internal/pkg/geo"
)

var searchCmd = &cobra.Command{
	Use:   "search CITY",
	Short: "List the famous places of a city",
	Long: `List the famous places the backend knows for a city, one per line in
the NAME@LAT,LON form accepted by the maplink and route commands.

Examples:
  tripplanner search Paris
  tripplanner search "New York" --backend-url http://localhost:5000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var searchVerbose bool

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVarP(&searchVerbose, "verbose", "v", false, "also print image URLs and formatted coordinates")
}

func runSearch(cmd *cobra.Command, args []string) error {
	coord := newCoordinator(cfg)
	snap, err := coord.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(snap.Results) == 0 {
		fmt.Fprintf(out, "No places found for %s\n", snap.City)
		return nil
	}
	for _, p := range snap.Results {
		fmt.Fprintln(out, p.Key().String())
		if searchVerbose {
			fmt.Fprintf(out, "    %s\n", geo.FormatCoordinatesDisplay(p.Lat, p.Lon))
			if p.Image != "" {
				fmt.Fprintf(out, "    %s\n", p.Image)
			}
		}
	}
	return nil
}
