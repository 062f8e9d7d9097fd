package hud

import "sync"

// Call is one setter invocation seen by a Recorder.
type Call struct {
	Field string
	Value string
}

// Recorder is an in-memory Surface for tests and headless runs.
type Recorder struct {
	mu    sync.Mutex
	last  Readout
	calls []Call
}

func (r *Recorder) record(field, v string, set func(*Readout)) {
	r.mu.Lock()
	set(&r.last)
	r.calls = append(r.calls, Call{Field: field, Value: v})
	r.mu.Unlock()
}

func (r *Recorder) SetCoordinates(v string) {
	r.record("coordinates", v, func(o *Readout) { o.Coordinates = v })
}

func (r *Recorder) SetAltitude(v string) {
	r.record("altitude", v, func(o *Readout) { o.Altitude = v })
}

func (r *Recorder) SetAccuracy(v string) {
	r.record("accuracy", v, func(o *Readout) { o.Accuracy = v })
}

func (r *Recorder) SetDateTime(v string) {
	r.record("datetime", v, func(o *Readout) { o.DateTime = v })
}

// Last returns the most recent value of every field.
func (r *Recorder) Last() Readout {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Calls returns every setter call in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many times field was set.
func (r *Recorder) Count(field string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Field == field {
			n++
		}
	}
	return n
}
