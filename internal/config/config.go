// Package config loads geo-cam settings. Values come from the built-in
// defaults, then the YAML file, then GEOCAM_* environment variables; the
// command line applies last.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/devonepao/geo-cam/internal/camera"
	"github.com/devonepao/geo-cam/internal/frame"
	"github.com/devonepao/geo-cam/internal/panel"
)

const AppName = "geo-cam"

type CameraConfig struct {
	Backend    string `yaml:"backend"` // "sim" or "gocv"
	Facing     string `yaml:"facing"`  // "environment" or "user"
	FrontIndex int    `yaml:"front_index"`
	BackIndex  int    `yaml:"back_index"`
	FPS        int    `yaml:"fps"`
	Portrait   bool   `yaml:"portrait"`
}

type LocationConfig struct {
	Backend      string        `yaml:"backend"` // "sim", "nmea", "browser" or "none"
	NMEAPath     string        `yaml:"nmea_path"`
	HighAccuracy bool          `yaml:"high_accuracy"`
	Timeout      time.Duration `yaml:"timeout"`
	MaximumAge   time.Duration `yaml:"maximum_age"`
	SimLatitude  float64       `yaml:"sim_latitude"`
	SimLongitude float64       `yaml:"sim_longitude"`
}

type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
	Quality int    `yaml:"quality"`
}

type WebConfig struct {
	Addr         string `yaml:"addr"`
	PreviewWidth int    `yaml:"preview_width"`
}

type Config struct {
	Brand    string         `yaml:"brand"`
	LogLevel string         `yaml:"log_level"`
	Camera   CameraConfig   `yaml:"camera"`
	Location LocationConfig `yaml:"location"`
	Output   OutputConfig   `yaml:"output"`
	Web      WebConfig      `yaml:"web"`
}

var (
	cameraBackends   = []string{"sim", "gocv"}
	locationBackends = []string{"sim", "nmea", "browser", "none"}
)

// DefaultPath is $XDG_CONFIG_HOME/geo-cam/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultPhotoDir is the user's pictures directory.
func DefaultPhotoDir() string {
	if xdg.UserDirs.Pictures != "" {
		return filepath.Join(xdg.UserDirs.Pictures, "GeoCam")
	}
	return filepath.Join(xdg.Home, "Pictures", "GeoCam")
}

func DefaultConfig() *Config {
	return &Config{
		Brand:    panel.DefaultBrand,
		LogLevel: "info",
		Camera: CameraConfig{
			Backend:    "sim",
			Facing:     camera.Back.String(),
			FrontIndex: 1,
			BackIndex:  0,
			FPS:        15,
		},
		Location: LocationConfig{
			Backend:      "sim",
			NMEAPath:     "/dev/ttyACM0",
			HighAccuracy: true,
			Timeout:      5 * time.Second,
			SimLatitude:  51.501364,
			SimLongitude: -0.141890,
		},
		Output: OutputConfig{
			Dir:     DefaultPhotoDir(),
			Prefix:  frame.DefaultPrefix,
			Quality: frame.DefaultQuality,
		},
		Web: WebConfig{
			Addr:         ":8080",
			PreviewWidth: 960,
		},
	}
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate normalises ranges and rejects unknown backend names.
func (c *Config) Validate() error {
	c.Camera.Backend = strings.ToLower(strings.TrimSpace(c.Camera.Backend))
	c.Location.Backend = strings.ToLower(strings.TrimSpace(c.Location.Backend))
	if !oneOf(c.Camera.Backend, cameraBackends) {
		return fmt.Errorf("camera backend %q: want one of %s", c.Camera.Backend, strings.Join(cameraBackends, ", "))
	}
	if !oneOf(c.Location.Backend, locationBackends) {
		return fmt.Errorf("location backend %q: want one of %s", c.Location.Backend, strings.Join(locationBackends, ", "))
	}
	if _, ok := camera.ParseFacing(c.Camera.Facing); !ok {
		return fmt.Errorf("camera facing %q: want environment or user", c.Camera.Facing)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Camera.FPS <= 0 || c.Camera.FPS > 60 {
		c.Camera.FPS = 15
	}
	if c.Location.Timeout <= 0 {
		c.Location.Timeout = 5 * time.Second
	}
	if c.Location.MaximumAge < 0 {
		c.Location.MaximumAge = 0
	}
	if c.Output.Quality <= 0 || c.Output.Quality > 100 {
		c.Output.Quality = frame.DefaultQuality
	}
	if c.Output.Prefix == "" {
		c.Output.Prefix = frame.DefaultPrefix
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultPhotoDir()
	}
	if c.Brand == "" {
		c.Brand = panel.DefaultBrand
	}
	if c.Web.PreviewWidth <= 0 {
		c.Web.PreviewWidth = 960
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML, replacing any existing file atomically.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	return renameio.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides fields from GEOCAM_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"GEOCAM_BRAND":      &c.Brand,
		"GEOCAM_LOG_LEVEL":  &c.LogLevel,
		"GEOCAM_CAMERA":     &c.Camera.Backend,
		"GEOCAM_FACING":     &c.Camera.Facing,
		"GEOCAM_LOCATION":   &c.Location.Backend,
		"GEOCAM_NMEA_PATH":  &c.Location.NMEAPath,
		"GEOCAM_OUTPUT_DIR": &c.Output.Dir,
		"GEOCAM_PREFIX":     &c.Output.Prefix,
		"GEOCAM_WEB_ADDR":   &c.Web.Addr,
	}
	for k, p := range str {
		if v, ok := lookup(k); ok {
			*p = v
		}
	}
	ints := map[string]*int{
		"GEOCAM_FPS":     &c.Camera.FPS,
		"GEOCAM_QUALITY": &c.Output.Quality,
	}
	for k, p := range ints {
		if v, ok := lookup(k); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			*p = n
		}
	}
	if v, ok := lookup("GEOCAM_LOCATION_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GEOCAM_LOCATION_TIMEOUT: %w", err)
		}
		c.Location.Timeout = d
	}
	return nil
}
