package location

import (
	"math/rand"
	"sync"
	"time"
)

// SimProvider walks a position slowly away from a starting point, the way
// a pedestrian would, and emits one fix per Interval.
type SimProvider struct {
	Lat, Lon float64
	Interval time.Duration
	// NoAltitude drops altitude from every fix.
	NoAltitude bool
	Seed       int64

	mu      sync.Mutex
	next    WatchID
	watches map[WatchID]chan struct{}
}

func (p *SimProvider) Watch(opts Options, onFix func(Fix), onError func(error)) (WatchID, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	done := make(chan struct{})

	p.mu.Lock()
	if p.watches == nil {
		p.watches = make(map[WatchID]chan struct{})
	}
	p.next++
	id := p.next
	p.watches[id] = done
	rng := rand.New(rand.NewSource(p.Seed + int64(id)))
	lat, lon, noAlt := p.Lat, p.Lon, p.NoAltitude
	p.mu.Unlock()

	w := newWatch(opts, onFix, onError)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			// ~1 m steps north-east with jitter
			lat += 0.000008 + rng.Float64()*0.000004
			lon += 0.000008 + rng.Float64()*0.000004
			f := Fix{Latitude: lat, Longitude: lon, Timestamp: time.Now()}
			if !noAlt {
				alt := 12.0 + rng.Float64()*2.0
				f.Altitude = &alt
			}
			acc := 3.0 + rng.Float64()*5.0
			f.Accuracy = &acc
			w.fix(f)

			select {
			case <-done:
				w.close()
				return
			case <-ticker.C:
			}
		}
	}()
	return id, nil
}

func (p *SimProvider) ClearWatch(id WatchID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if done, ok := p.watches[id]; ok {
		close(done)
		delete(p.watches, id)
	}
}
