// Package hud holds the four display strings shared by the live overlay and
// the capture compositor.
package hud

import "sync"

// Readout is what the overlay shows. Each field has exactly one writer.
type Readout struct {
	Coordinates string
	Altitude    string
	Accuracy    string
	DateTime    string
}

// Surface is anything that displays a Readout, one setter per field.
type Surface interface {
	SetCoordinates(string)
	SetAltitude(string)
	SetAccuracy(string)
	SetDateTime(string)
}

// State is the single source of truth for the readout. Writes are applied
// to the state first and then forwarded to every attached surface, so a
// capture always sees what the screens were last told.
type State struct {
	mu       sync.RWMutex
	r        Readout
	surfaces []Surface
}

// NewState returns a state with placeholder values forwarded to surfaces.
func NewState(surfaces ...Surface) *State {
	return &State{
		r: Readout{
			Coordinates: "--",
			Altitude:    "--",
			Accuracy:    "--",
			DateTime:    "--",
		},
		surfaces: surfaces,
	}
}

// Attach adds a surface and replays the current readout to it.
func (s *State) Attach(surface Surface) {
	s.mu.Lock()
	s.surfaces = append(s.surfaces, surface)
	r := s.r
	s.mu.Unlock()
	Apply(surface, r)
}

// Snapshot returns a copy of the current readout.
func (s *State) Snapshot() Readout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *State) set(field func(*Readout), forward func(Surface)) {
	s.mu.Lock()
	field(&s.r)
	surfaces := append([]Surface(nil), s.surfaces...)
	s.mu.Unlock()
	for _, sf := range surfaces {
		forward(sf)
	}
}

func (s *State) SetCoordinates(v string) {
	s.set(func(r *Readout) { r.Coordinates = v }, func(sf Surface) { sf.SetCoordinates(v) })
}

func (s *State) SetAltitude(v string) {
	s.set(func(r *Readout) { r.Altitude = v }, func(sf Surface) { sf.SetAltitude(v) })
}

func (s *State) SetAccuracy(v string) {
	s.set(func(r *Readout) { r.Accuracy = v }, func(sf Surface) { sf.SetAccuracy(v) })
}

func (s *State) SetDateTime(v string) {
	s.set(func(r *Readout) { r.DateTime = v }, func(sf Surface) { sf.SetDateTime(v) })
}

// Apply pushes every field of r to surface.
func Apply(surface Surface, r Readout) {
	surface.SetCoordinates(r.Coordinates)
	surface.SetAltitude(r.Altitude)
	surface.SetAccuracy(r.Accuracy)
	surface.SetDateTime(r.DateTime)
}
