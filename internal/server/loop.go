package server

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// ErrStop ends Loop early without error.
var ErrStop = errors.New("stop loop")

// Loop calls fn for i = 0..n-1, or until ctx is done when n <= 0. With Config.Realtime
// each iteration is paced to the world time step. An error from fn ends the loop and is
// returned, except ErrStop which returns nil.
func (s *Server) Loop(ctx context.Context, n int, fn func(i int) error) error {
	var lim *rate.Limiter
	if s.cfg.Realtime {
		period := time.Duration(s.world.TimeStep() * float64(time.Second))
		lim = rate.NewLimiter(rate.Every(period), 1)
	}
	for i := 0; n <= 0 || i < n; i++ {
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		} else if ctx.Err() != nil {
			return nil
		}
		if err := fn(i); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}
