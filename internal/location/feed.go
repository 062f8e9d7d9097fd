package location

import (
	"sync"
	"time"
)

// Feed is a Provider whose fixes are pushed in from outside, for example by
// a browser reporting its own geolocation over a websocket.
type Feed struct {
	// Now is used to age the cached fix; defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	next    WatchID
	watches map[WatchID]*watch
	last    *Fix
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{Now: time.Now, watches: make(map[WatchID]*watch)}
}

func (f *Feed) Watch(opts Options, onFix func(Fix), onError func(error)) (WatchID, error) {
	w := newWatch(opts, onFix, onError)

	f.mu.Lock()
	if f.watches == nil {
		f.watches = make(map[WatchID]*watch)
	}
	f.next++
	id := f.next
	f.watches[id] = w
	var cached *Fix
	if f.last != nil && opts.MaximumAge > 0 && f.now().Sub(f.last.Timestamp) <= opts.MaximumAge {
		c := *f.last
		cached = &c
	}
	f.mu.Unlock()

	if cached != nil {
		w.fix(*cached)
	}
	return id, nil
}

func (f *Feed) ClearWatch(id WatchID) {
	f.mu.Lock()
	w, ok := f.watches[id]
	delete(f.watches, id)
	f.mu.Unlock()
	if ok {
		w.close()
	}
}

// Push delivers a fix to every watch.
func (f *Feed) Push(fix Fix) {
	if fix.Timestamp.IsZero() {
		fix.Timestamp = f.now()
	}
	f.mu.Lock()
	f.last = &fix
	watches := f.snapshot()
	f.mu.Unlock()
	for _, w := range watches {
		w.fix(fix)
	}
}

// Fail delivers an error to every watch. Watches stay open.
func (f *Feed) Fail(err error) {
	f.mu.Lock()
	watches := f.snapshot()
	f.mu.Unlock()
	for _, w := range watches {
		w.fail(err)
	}
}

// Watches returns the number of open watches.
func (f *Feed) Watches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watches)
}

func (f *Feed) snapshot() []*watch {
	out := make([]*watch, 0, len(f.watches))
	for _, w := range f.watches {
		out = append(out, w)
	}
	return out
}

func (f *Feed) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}
