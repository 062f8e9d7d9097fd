// Program geocam shows a live camera view with a GPS heads-up display and
// saves photos with the readout burned in. It can run a browser front end,
// a terminal front end, or take a single photo and exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/devonepao/geo-cam/internal/app"
	"github.com/devonepao/geo-cam/internal/camera"
	"github.com/devonepao/geo-cam/internal/config"
	"github.com/devonepao/geo-cam/internal/location"
	"github.com/devonepao/geo-cam/internal/tui"
	"github.com/devonepao/geo-cam/internal/web"
)

type options struct {
	configPath  string
	saveConfig  bool
	web         bool
	tui         bool
	captureOnce bool
	probe       string
	logJSON     bool
}

func parseFlags(args []string, cfg *config.Config) (options, error) {
	var o options
	fs := pflag.NewFlagSet("geocam", pflag.ContinueOnError)
	fs.StringVarP(&o.configPath, "config", "c", config.DefaultPath(), "config file")
	fs.BoolVar(&o.saveConfig, "save-config", false, "write the effective config to --config and exit")
	fs.BoolVar(&o.web, "web", false, "serve the browser front end")
	fs.BoolVar(&o.tui, "tui", false, "run the terminal front end")
	fs.BoolVar(&o.captureOnce, "capture-once", false, "take one photo and exit")
	fs.StringVar(&o.probe, "probe", "", "print V4L2 capabilities of a device node and exit")
	fs.BoolVar(&o.logJSON, "log-json", false, "log JSON instead of text")

	fs.StringVar(&cfg.Camera.Backend, "camera", cfg.Camera.Backend, "camera backend: sim or gocv")
	fs.StringVar(&cfg.Camera.Facing, "facing", cfg.Camera.Facing, "initial lens: environment or user")
	fs.StringVar(&cfg.Location.Backend, "location", cfg.Location.Backend, "location backend: sim, nmea, browser or none")
	fs.StringVar(&cfg.Location.NMEAPath, "nmea", cfg.Location.NMEAPath, "NMEA sentence source for the nmea backend")
	fs.StringVarP(&cfg.Output.Dir, "out", "o", cfg.Output.Dir, "photo directory")
	fs.StringVar(&cfg.Output.Prefix, "prefix", cfg.Output.Prefix, "photo file name prefix")
	fs.StringVar(&cfg.Brand, "brand", cfg.Brand, "overlay header text")
	fs.StringVar(&cfg.Web.Addr, "addr", cfg.Web.Addr, "web listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// loadConfig layers defaults, file, environment and flags. The config path
// itself is a flag, so flags are parsed twice: once to find the file and once
// over the loaded values.
func loadConfig(args []string) (*config.Config, options, error) {
	o, err := parseFlags(args, config.DefaultConfig())
	if err != nil {
		return nil, o, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, o, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, o, err
	}
	if o, err = parseFlags(args, cfg); err != nil {
		return nil, o, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, o, err
	}
	return cfg, o, nil
}

func probe(path string) error {
	info, err := camera.ProbeDevice(path)
	if err != nil {
		return err
	}
	fmt.Println(info)
	return nil
}

// waitForFix gives the location backend a moment to report a first fix.
func waitForFix(ctx context.Context, ctrl *app.Controller, d time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for ctrl.State.Snapshot().Coordinates == location.Acquiring {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}

func captureOnce(ctx context.Context, ctrl *app.Controller, logger *slog.Logger) error {
	if err := ctrl.Init(ctx); err != nil {
		return err
	}
	if !waitForFix(ctx, ctrl, 3*time.Second) {
		logger.Warn("no location fix yet, capturing anyway")
	}
	_, where, err := ctrl.Capture(ctx)
	if err != nil {
		return err
	}
	fmt.Println(where)
	return nil
}

func geocam(ctx context.Context, cfg *config.Config, o options, logger *slog.Logger) error {
	ctrl, feed, err := app.FromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if o.captureOnce {
		return captureOnce(ctx, ctrl, logger)
	}
	if !o.web && !o.tui {
		o.web = true
	}

	g, ctx := errgroup.WithContext(ctx)
	if o.web {
		srv := web.New(ctrl, web.Options{
			Addr:         cfg.Web.Addr,
			Brand:        cfg.Brand,
			Feed:         feed,
			PreviewWidth: cfg.Web.PreviewWidth,
			Unsupported:  ctrl.LocationUnsupported,
			Logger:       logger.With("component", "web"),
		})
		ctrl.AddSurface(srv)
		ctrl.AddPrompt(srv)
		ctrl.AddPreview(srv)
		g.Go(func() error { return srv.ListenAndServe(ctx) })
	}
	if o.tui {
		bridge := &tui.Bridge{}
		ctrl.AddSurface(bridge)
		ctrl.AddPrompt(bridge)
		g.Go(func() error {
			err := tui.Run(ctx, ctrl, bridge, cfg.Brand)
			// leaving the terminal ui ends the program
			return errors.Join(err, errQuit)
		})
	}

	// a camera failure is shown on the prompt and retried from a front end
	if err := ctrl.Init(ctx); err != nil {
		logger.Warn("camera unavailable", "error", err)
	}

	err = g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var errQuit = errors.New("quit")

func main() {
	cfg, o, err := loadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "geocam:", err)
		os.Exit(2)
	}
	level, _ := cfg.Level()
	// the terminal ui owns stdout, so logs always go to stderr
	logger := NewLogger(os.Stderr, level, o.logJSON)
	slog.SetDefault(logger)

	switch {
	case o.probe != "":
		if err := probe(o.probe); err != nil {
			logger.Error("probe failed", "path", o.probe, "error", err)
			os.Exit(1)
		}
		return
	case o.saveConfig:
		if err := cfg.Save(o.configPath); err != nil {
			logger.Error("save config failed", "path", o.configPath, "error", err)
			os.Exit(1)
		}
		logger.Info("config saved", "path", o.configPath)
		return
	}

	// Cancel the context instead of exiting the program:
	ctx, canc := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer canc()
	if err := geocam(ctx, cfg, o, logger); err != nil {
		logger.Error("geocam failed", "error", err)
		canc()
		os.Exit(1)
	}
}
