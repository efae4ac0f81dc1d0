package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-tripplanner/internal/app/backend"
	"github.com/FACorreiaa/go-tripplanner/internal/app/directions"
	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/app/planner"
	"github.com/FACorreiaa/go-tripplanner/internal/pkg/config"
	"github.com/FACorreiaa/go-tripplanner/internal/pkg/logger"
)

// newCoordinator wires a single-session coordinator for one-shot commands.
// Nothing is persisted.
func newCoordinator(cfg *config.Config) *planner.Coordinator {
	return planner.New(planner.Options{
		Backend: backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, logger.Named("backend")),
		Directions: directions.NewService(directions.Options{
			GoogleAPIKey:    cfg.Directions.GoogleAPIKey,
			AverageSpeedKmh: cfg.Directions.AverageSpeedKmh,
			Timeout:         cfg.Backend.RequestTimeout,
		}, logger.Named("directions")),
		MapBaseURL: cfg.PublicURL,
		TravelMode: cfg.Directions.Mode,
		Logger:     logger.Named("planner"),
	})
}

// parsePlaceArg reads a place written as NAME@LAT,LON, the same form
// PlaceKey prints.
func parsePlaceArg(arg string) (models.Place, error) {
	at := strings.LastIndex(arg, "@")
	if at <= 0 {
		return models.Place{}, fmt.Errorf("%w: place %q must look like NAME@LAT,LON", models.ErrValidation, arg)
	}
	name := strings.TrimSpace(arg[:at])
	coords := strings.Split(arg[at+1:], ",")
	if len(coords) != 2 {
		return models.Place{}, fmt.Errorf("%w: place %q must look like NAME@LAT,LON", models.ErrValidation, arg)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
	if err != nil {
		return models.Place{}, fmt.Errorf("%w: latitude of %q: %v", models.ErrValidation, arg, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
	if err != nil {
		return models.Place{}, fmt.Errorf("%w: longitude of %q: %v", models.ErrValidation, arg, err)
	}
	return models.Place{Name: name, Lat: lat, Lon: lon}, nil
}

func parsePlaceArgs(args []string) ([]models.Place, error) {
	places := make([]models.Place, 0, len(args))
	for _, arg := range args {
		p, err := parsePlaceArg(arg)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, nil
}
