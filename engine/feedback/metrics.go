package feedback

import (
	"sync/atomic"
	"time"
)

// Metrics is a snapshot of a filter's counters.
type Metrics struct {
	Composites    uint64
	Redraws       uint64
	Skips         uint64
	Invalidations uint64
	Resizes       uint64
	Slots         int
	Interval      time.Duration
}

type counters struct {
	composites    atomic.Uint64
	redraws       atomic.Uint64
	skips         atomic.Uint64
	invalidations atomic.Uint64
	resizes       atomic.Uint64
	slots         atomic.Int64
	interval      atomic.Uint64
}

func (c *counters) snapshot() Metrics {
	return Metrics{
		Composites:    c.composites.Load(),
		Redraws:       c.redraws.Load(),
		Skips:         c.skips.Load(),
		Invalidations: c.invalidations.Load(),
		Resizes:       c.resizes.Load(),
		Slots:         int(c.slots.Load()),
		Interval:      time.Duration(c.interval.Load()),
	}
}
