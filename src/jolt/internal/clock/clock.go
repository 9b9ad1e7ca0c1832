package clock

import (
	"time"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Clock abstracts time so periodic work can be driven by tests.
type Clock interface {
	// NewTicker returns a Ticker delivering ticks at the given interval.
	NewTicker(interval time.Duration) Ticker
}

// Ticker is the subset of *time.Ticker used for periodic work.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type clock struct{}

// New creates a new instance of Clock.
func New() Clock {
	return clock{}
}

func (clock) NewTicker(interval time.Duration) Ticker {
	return &ticker{t: time.NewTicker(interval)}
}

type ticker struct {
	t *time.Ticker
}

func (t *ticker) C() <-chan time.Time {
	return t.t.C
}

func (t *ticker) Stop() {
	t.t.Stop()
}
