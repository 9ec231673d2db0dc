// Package pace provides the pacing policy used to throttle I/O loops.
package pace

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer gates loop iterations. Wait blocks until the next iteration may
// proceed or the context is canceled.
type Pacer interface {
	Wait(ctx context.Context) error
}

type intervalPacer struct {
	lim *rate.Limiter
}

// Interval returns a Pacer that admits one iteration per interval d.
// The first Wait is admitted immediately, so K iterations take at least
// (K-1)*d of wall-clock time. A non-positive d behaves like Nop.
func Interval(d time.Duration) Pacer {
	if d <= 0 {
		return Nop()
	}
	return &intervalPacer{lim: rate.NewLimiter(rate.Every(d), 1)}
}

func (p *intervalPacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}

type nopPacer struct{}

// Nop returns a Pacer that never delays. Tests use it to run the I/O
// loops without real wall-clock sleeps.
func Nop() Pacer {
	return nopPacer{}
}

func (nopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
