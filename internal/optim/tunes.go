package optim

import (
	"context"
	"math"

	"github.com/san-kum/beamsim/internal/algorithms"
	"github.com/san-kum/beamsim/internal/config"
	"github.com/san-kum/beamsim/internal/experiment"
	"github.com/san-kum/beamsim/internal/phase"
)

// TuneObjective scores a ring by the squared distance of its transverse
// tunes from (nux, nuy). A ring unstable in either plane scores NaN.
func TuneObjective(r *experiment.Registry, nux, nuy float64) Objective {
	return func(ctx context.Context, cfg *config.Config) (float64, error) {
		c := *cfg
		c.Algorithm = algorithms.NameTransferMap

		s, err := r.Build(&c)
		if err != nil {
			return 0, err
		}
		m, err := s.OneTurnMap()
		if err != nil {
			return 0, err
		}

		tunes := m.Tunes()
		dx := tunes[phase.PlaneX] - nux
		dy := tunes[phase.PlaneY] - nuy
		if math.IsNaN(dx) || math.IsNaN(dy) {
			return math.NaN(), nil
		}
		return dx*dx + dy*dy, nil
	}
}
