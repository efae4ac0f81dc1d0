package directions

import (
	"context"
	"fmt"
	"time"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/pkg/geo"
)

// HaversineService estimates legs as great-circle hops at a constant speed.
type HaversineService struct {
	speedMetersPerSecond float64
}

var _ Service = (*HaversineService)(nil)

func NewHaversineService(averageSpeedKmh float64) *HaversineService {
	return &HaversineService{speedMetersPerSecond: averageSpeedKmh * 1000 / 3600}
}

func (s *HaversineService) Route(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.speedMetersPerSecond <= 0 {
		return nil, fmt.Errorf("%w: average speed must be positive", models.ErrDirections)
	}

	stops := req.Stops()
	legs := make([]models.Leg, 0, len(stops)-1)
	for i := 1; i < len(stops); i++ {
		from, to := stops[i-1], stops[i]
		if from == to {
			continue
		}
		d := geo.HaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon)
		legs = append(legs, models.Leg{
			From:     from,
			To:       to,
			Distance: d,
			Duration: time.Duration(d / s.speedMetersPerSecond * float64(time.Second)),
		})
	}
	return &Response{Legs: legs}, nil
}
