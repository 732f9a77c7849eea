package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// Config is the service configuration. It can be queried over HTTP,
// so keep sensitive data out.
type Config struct {
	Listen          string `json:"listen"`
	Device          string `json:"device"`
	SVGDir          string `json:"svg_dir"`
	StaticDir       string `json:"static_dir"`
	IntervalSeconds uint64 `json:"interval_seconds"`
}

// loadConfig reads the JSON config file and applies environment
// overrides: IBB_LISTEN, IBB_DEVICE, IBB_SVG_DIR, IBB_STATIC_DIR and
// IBB_INTERVAL_SECONDS.
func loadConfig(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Listen = env.Str("IBB_LISTEN", cfg.Listen)
	cfg.Device = env.Str("IBB_DEVICE", cfg.Device)
	cfg.SVGDir = env.Str("IBB_SVG_DIR", cfg.SVGDir)
	cfg.StaticDir = env.Str("IBB_STATIC_DIR", cfg.StaticDir)
	cfg.IntervalSeconds = uint64(env.Int("IBB_INTERVAL_SECONDS", int(cfg.IntervalSeconds)))
	if cfg.Listen == "" {
		cfg.Listen = "127.0.0.1:8080"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "static"
	}
	return cfg, nil
}

// active reports whether the config names a robot to drive. Without a
// device, an SVG directory and an interval the server runs in
// preview-only mode.
func (c Config) active() bool {
	return c.Device != "" && c.SVGDir != "" && c.IntervalSeconds > 0
}
