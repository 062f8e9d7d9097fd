package location

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// NMEAProvider reads NMEA 0183 sentences from a GNSS receiver, typically a
// serial device such as /dev/ttyACM0 already configured for the right baud
// rate. GGA supplies position and altitude, GST or Garmin's PGRME the
// horizontal accuracy, and RMC the validity flag for receivers that do not
// send GGA.
type NMEAProvider struct {
	Path string
	// Open overrides how the sentence stream is opened; used by tests.
	Open   func() (io.ReadCloser, error)
	Logger *slog.Logger

	mu      sync.Mutex
	next    WatchID
	readers map[WatchID]io.Closer
	watches map[WatchID]*watch
}

func (p *NMEAProvider) open() (io.ReadCloser, error) {
	if p.Open != nil {
		return p.Open()
	}
	return os.Open(p.Path)
}

func (p *NMEAProvider) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *NMEAProvider) Watch(opts Options, onFix func(Fix), onError func(error)) (WatchID, error) {
	rc, err := p.open()
	if err != nil {
		code := PositionUnavailable
		if errors.Is(err, fs.ErrPermission) {
			code = PermissionDenied
		}
		return 0, &PositionError{Code: code, Message: err.Error()}
	}
	w := newWatch(opts, onFix, onError)

	p.mu.Lock()
	if p.readers == nil {
		p.readers = make(map[WatchID]io.Closer)
		p.watches = make(map[WatchID]*watch)
	}
	p.next++
	id := p.next
	p.readers[id] = rc
	p.watches[id] = w
	p.mu.Unlock()

	go p.read(rc, w)
	return id, nil
}

func (p *NMEAProvider) ClearWatch(id WatchID) {
	p.mu.Lock()
	rc, ok := p.readers[id]
	w := p.watches[id]
	delete(p.readers, id)
	delete(p.watches, id)
	p.mu.Unlock()
	if ok {
		w.close()
		rc.Close()
	}
}

func (p *NMEAProvider) read(r io.Reader, w *watch) {
	var d nmeaDecoder
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fix, err := d.decode(line, time.Now())
		switch {
		case err != nil:
			w.fail(err)
		case fix != nil:
			w.fix(*fix)
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, fs.ErrClosed) {
		p.logger().Warn("nmea stream ended", "path", p.Path, "error", err)
		w.fail(&PositionError{Code: PositionUnavailable, Message: err.Error()})
	}
}

// gst is the GNSS pseudorange error statistics sentence. go-nmea has no
// parser for it, so it is registered on each decoder's SentenceParser.
type gst struct {
	nmea.BaseSentence
	RMS            float64
	LatitudeError  float64 // 1-sigma, metres
	LongitudeError float64
	AltitudeError  float64
}

const typeGST = "GST"

func parseGST(s nmea.BaseSentence) (nmea.Sentence, error) {
	p := nmea.NewParser(s)
	p.AssertType(typeGST)
	return gst{
		BaseSentence:   s,
		RMS:            p.Float64(1, "rms"),
		LatitudeError:  p.Float64(5, "latitude error"),
		LongitudeError: p.Float64(6, "longitude error"),
		AltitudeError:  p.Float64(7, "altitude error"),
	}, p.Err()
}

// nmeaDecoder turns a sentence stream into fixes. It keeps the latest
// accuracy estimate and remembers whether the receiver sends GGA so RMC is
// only used as a fallback. A decoder belongs to one goroutine.
type nmeaDecoder struct {
	parser   *nmea.SentenceParser
	accuracy *float64
	sawGGA   bool
}

// decode returns a fix, a PositionError, or neither for sentences that carry
// no position.
func (d *nmeaDecoder) decode(line string, now time.Time) (*Fix, error) {
	if d.parser == nil {
		d.parser = &nmea.SentenceParser{
			CustomParsers: map[string]nmea.ParserFunc{typeGST: parseGST},
		}
	}
	s, err := d.parser.Parse(line)
	if err != nil {
		return nil, nil
	}
	switch m := s.(type) {
	case nmea.GGA:
		d.sawGGA = true
		if m.FixQuality == nmea.Invalid {
			return nil, &PositionError{Code: PositionUnavailable, Message: "no satellite fix"}
		}
		alt := m.Altitude
		return &Fix{
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
			Altitude:  &alt,
			Accuracy:  d.accuracy,
			Timestamp: now,
		}, nil
	case gst:
		acc := math.Hypot(m.LatitudeError, m.LongitudeError)
		d.accuracy = &acc
	case nmea.PGRME:
		acc := m.Horizontal
		d.accuracy = &acc
	case nmea.RMC:
		if m.Validity != nmea.ValidRMC {
			return nil, &PositionError{Code: PositionUnavailable, Message: fmt.Sprintf("receiver reports %s", m.Validity)}
		}
		if !d.sawGGA {
			return &Fix{
				Latitude:  m.Latitude,
				Longitude: m.Longitude,
				Accuracy:  d.accuracy,
				Timestamp: now,
			}, nil
		}
	}
	return nil, nil
}
