package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/devonepao/geo-cam/internal/camera"
	"github.com/devonepao/geo-cam/internal/config"
	"github.com/devonepao/geo-cam/internal/export"
	"github.com/devonepao/geo-cam/internal/location"
)

// FromConfig builds a controller from the configured backends. The returned
// feed is non-nil only for the browser location backend; the web front end
// pushes the browser's fixes into it.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Controller, *location.Feed, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var dev camera.Device
	switch cfg.Camera.Backend {
	case "sim":
		dev = &camera.SimDevice{FPS: cfg.Camera.FPS, Portrait: cfg.Camera.Portrait}
	case "gocv":
		d, err := camera.NewGoCVDevice(cfg.Camera.FrontIndex, cfg.Camera.BackIndex)
		if err != nil {
			return nil, nil, err
		}
		dev = d
	default:
		return nil, nil, fmt.Errorf("unknown camera backend %q", cfg.Camera.Backend)
	}
	facing, ok := camera.ParseFacing(cfg.Camera.Facing)
	if !ok {
		return nil, nil, fmt.Errorf("unknown camera facing %q", cfg.Camera.Facing)
	}

	var (
		provider location.Provider
		feed     *location.Feed
	)
	switch cfg.Location.Backend {
	case "sim":
		provider = &location.SimProvider{Lat: cfg.Location.SimLatitude, Lon: cfg.Location.SimLongitude, Interval: time.Second}
	case "nmea":
		provider = &location.NMEAProvider{Path: cfg.Location.NMEAPath, Logger: logger.With("component", "nmea")}
	case "browser":
		feed = location.NewFeed()
		provider = feed
	case "none":
	default:
		return nil, nil, fmt.Errorf("unknown location backend %q", cfg.Location.Backend)
	}

	c, err := New(Config{
		Device:   dev,
		Facing:   facing,
		Location: provider,
		Saver:    export.NewDirSaver(cfg.Output.Dir, logger.With("component", "export")),
		LocationOptions: location.Options{
			HighAccuracy: cfg.Location.HighAccuracy,
			Timeout:      cfg.Location.Timeout,
			MaximumAge:   cfg.Location.MaximumAge,
		},
		Brand:   cfg.Brand,
		Prefix:  cfg.Output.Prefix,
		Quality: cfg.Output.Quality,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("backends selected", "camera", cfg.Camera.Backend, "facing", facing, "location", cfg.Location.Backend, "output", cfg.Output.Dir)
	return c, feed, nil
}
