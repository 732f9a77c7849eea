package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"iboardbot.dev/preview"
	"iboardbot.dev/qrdraw"
	"iboardbot.dev/robot"
	"iboardbot.dev/scaling"
	"iboardbot.dev/svg"
)

// boardPadding is the margin in millimeters kept free around fitted
// drawings.
const boardPadding = 5

// previewPxPerMM is the preview image resolution.
const previewPxPerMM = 4

// qrModuleMM is the module size QR codes are generated at before
// fitting.
const qrModuleMM = 4

type server struct {
	cfg      Config
	tasks    chan<- robot.PrintTask
	headless bool
}

func (s *server) routes() *http.ServeMux {
	mux := s.previewRoutes()
	mux.HandleFunc("GET /config/", s.handleConfig)
	mux.HandleFunc("GET /list/", s.handleList)
	mux.HandleFunc("POST /print/", s.handlePrint)
	mux.HandleFunc("POST /qr/", s.handleQR)
	mux.HandleFunc("GET /headless/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, "headless.html"))
	})
	return mux
}

func (s *server) previewRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /preview/", s.handlePreview)
	mux.HandleFunc("POST /preview.png", s.handlePreviewPNG)
	return mux
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := "index.html"
	switch {
	case s.tasks == nil:
		page = "index-preview.html"
	case s.headless:
		page = "headless.html"
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, page))
}

func (s *server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	files, err := svgFiles(s.cfg.SVGDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read files in SVG directory")
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *server) handlePreview(w http.ResponseWriter, r *http.Request) {
	polylines, ok := s.parseSVGRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, polylines)
}

func (s *server) handlePreviewPNG(w http.ResponseWriter, r *http.Request) {
	polylines, ok := s.parseSVGRequest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, preview.Render(polylines, previewPxPerMM)); err != nil {
		log.Printf("serve: encoding preview failed: %v", err)
	}
}

// parseSVGRequest decodes a {"svg": ...} request body into polylines,
// answering the request itself on failure.
func (s *server) parseSVGRequest(w http.ResponseWriter, r *http.Request) ([]svg.Polyline, bool) {
	var req struct {
		SVG string `json:"svg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not parse JSON payload: %v", err))
		return nil, false
	}
	polylines, err := svg.Parse(strings.NewReader(req.SVG))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return polylines, true
}

type printRequest struct {
	SVG     string  `json:"svg"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
	Mode    string  `json:"mode"`
}

func (s *server) handlePrint(w http.ResponseWriter, r *http.Request) {
	var req printRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not parse JSON payload: %v", err))
		return
	}
	log.Printf("serve: requested print mode %q", req.Mode)
	polylines, err := svg.Parse(strings.NewReader(req.SVG))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	scaling.Scale(polylines, req.OffsetX, req.OffsetY, req.ScaleX, req.ScaleY)
	s.enqueue(w, req.Mode, polylines)
}

func (s *server) handleQR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Mode    string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not parse JSON payload: %v", err))
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "empty QR content")
		return
	}
	polylines, err := qrdraw.Polylines(req.Content, qrModuleMM)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := scaling.Fit(polylines, boardBounds()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.enqueue(w, req.Mode, polylines)
}

// enqueue wraps the polylines in a task for the requested mode and
// hands it to the robot.
func (s *server) enqueue(w http.ResponseWriter, mode string, polylines []svg.Polyline) {
	task, err := printTask(mode, polylines)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.tasks <- task
	log.Printf("serve: printing")
	w.WriteHeader(http.StatusNoContent)
}

func printTask(mode string, polylines []svg.Polyline) (robot.PrintTask, error) {
	scheduled := func(d time.Duration) robot.PrintTask {
		return robot.Scheduled(d, [][]svg.Polyline{polylines})
	}
	switch mode {
	case "once":
		return robot.Once(polylines), nil
	case "schedule5":
		return scheduled(5 * time.Minute), nil
	case "schedule15":
		return scheduled(15 * time.Minute), nil
	case "schedule30":
		return scheduled(30 * time.Minute), nil
	case "schedule60":
		return scheduled(60 * time.Minute), nil
	}
	return robot.PrintTask{}, fmt.Errorf("unknown print mode %q", mode)
}

// boardBounds is the printable area with its safety margin.
func boardBounds() scaling.Bounds {
	b := scaling.Bounds{
		X: scaling.Range{Min: 0, Max: robot.Width},
		Y: scaling.Range{Min: 0, Max: robot.Height},
	}
	b.AddPadding(boardPadding)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("serve: encoding response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, details string) {
	type errorDetails struct {
		Details string `json:"details"`
	}
	writeJSON(w, status, errorDetails{Details: details})
}
