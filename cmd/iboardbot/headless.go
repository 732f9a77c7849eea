package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"iboardbot.dev/robot"
	"iboardbot.dev/scaling"
	"iboardbot.dev/svg"
)

// svgFiles lists the SVG file names in dir, sorted.
func svgFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".svg") {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// headlessStart reads every SVG in the configured directory, fits
// each into the padded board area and enqueues one scheduled task
// rotating through them.
func headlessStart(tasks chan<- robot.PrintTask, cfg Config) error {
	files, err := svgFiles(cfg.SVGDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no SVG files found in %s", cfg.SVGDir)
	}
	bounds := boardBounds()
	var drawings [][]svg.Polyline
	for _, name := range files {
		f, err := os.Open(filepath.Join(cfg.SVGDir, name))
		if err != nil {
			return err
		}
		polylines, err := svg.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := scaling.Fit(polylines, bounds); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		drawings = append(drawings, polylines)
	}
	tasks <- robot.Scheduled(time.Duration(cfg.IntervalSeconds)*time.Second, drawings)
	log.Printf("serve: printing %d drawings every %ds", len(drawings), cfg.IntervalSeconds)
	return nil
}
