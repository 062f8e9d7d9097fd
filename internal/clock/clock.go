// Package clock samples wall time once a second for the overlay.
package clock

import (
	"context"
	"time"
)

// Layouts match an en-US "medium" date and a 24-hour time with seconds.
const (
	DateLayout = "Jan 2, 2006"
	TimeLayout = "15:04:05"
)

// Sample is one formatted reading of the clock.
type Sample struct {
	Date string
	Time string
	At   time.Time
}

// String is the combined Date & Time label.
func (s Sample) String() string { return s.Date + " " + s.Time }

// Format formats t in its own location.
func Format(t time.Time) Sample {
	return Sample{Date: t.Format(DateLayout), Time: t.Format(TimeLayout), At: t}
}

// Clock emits a Sample immediately and then every Interval.
type Clock struct {
	Interval time.Duration
	Now      func() time.Time
	OnTick   func(Sample)
}

// New returns a 1 Hz local-time clock.
func New(onTick func(Sample)) *Clock {
	return &Clock{Interval: time.Second, Now: time.Now, OnTick: onTick}
}

// Run blocks until ctx is done.
func (c *Clock) Run(ctx context.Context) {
	interval := c.Interval
	if interval <= 0 {
		interval = time.Second
	}
	c.tick()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *Clock) tick() {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	if c.OnTick != nil {
		c.OnTick(Format(now().Local()))
	}
}
