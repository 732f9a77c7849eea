// command iboardbot serves the iBoardBot drawing UI and drives the
// robot over its serial port.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"iboardbot.dev/robot"
)

func main() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))

	configFile := flag.String("c", "config.json", "path to config file")
	headless := flag.Bool("headless", false, "headless mode (start drawing immediately)")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Printf("serve: %v", err)
		os.Exit(1)
	}
	if !cfg.active() {
		mainPreview(cfg)
		return
	}
	mainActive(cfg, *headless)
}

// mainActive runs the server with a robot attached.
func mainActive(cfg Config, headless bool) {
	log.Printf("serve: starting in active mode (with robot attached)")

	if _, err := os.Stat(cfg.Device); err != nil {
		log.Printf("serve: device %s does not exist", cfg.Device)
		os.Exit(2)
	}
	requireDir(cfg.StaticDir, "static files dir")
	requireDir(cfg.SVGDir, "SVG dir")

	tasks, err := robot.Communicate(cfg.Device, robot.Baud)
	if err != nil {
		log.Printf("serve: %v", err)
		os.Exit(2)
	}

	if headless {
		log.Printf("serve: starting in headless mode")
		if err := headlessStart(tasks, cfg); err != nil {
			log.Printf("serve: could not start headless mode: %v", err)
			os.Exit(3)
		}
	}

	s := &server{cfg: cfg, tasks: tasks, headless: headless}
	log.Printf("serve: listening on %s", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, s.routes()); err != nil {
		log.Printf("serve: %v", err)
		os.Exit(2)
	}
}

// mainPreview runs the server without a robot: static files and
// previews only.
func mainPreview(cfg Config) {
	log.Printf("serve: starting in preview-only mode")
	requireDir(cfg.StaticDir, "static files dir")

	s := &server{cfg: cfg}
	log.Printf("serve: listening on %s", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, s.previewRoutes()); err != nil {
		log.Printf("serve: %v", err)
		os.Exit(2)
	}
}

func requireDir(path, what string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		log.Printf("serve: %s %s does not exist", what, path)
		os.Exit(2)
	}
}
