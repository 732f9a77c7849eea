package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"iboardbot.dev/robot"
)

func TestHeadlessStart(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.svg":    `<svg><path d="M0 0 L100 100"/></svg>`,
		"a.svg":    `<svg><line x1="0" y1="0" x2="10" y2="0"/></svg>`,
		"skip.txt": "not an svg",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tasks := make(chan robot.PrintTask, 1)
	cfg := Config{SVGDir: dir, IntervalSeconds: 60}
	if err := headlessStart(tasks, cfg); err != nil {
		t.Fatal(err)
	}
	task := <-tasks
	if task.Interval != time.Minute {
		t.Errorf("interval is %v", task.Interval)
	}
	if len(task.Drawings) != 2 {
		t.Fatalf("task carries %d drawings, want 2", len(task.Drawings))
	}

	// Directory order is sorted, so a.svg comes first; its fitted
	// line stays on one horizontal.
	a := task.Drawings[0]
	if len(a) != 1 || len(a[0]) != 2 {
		t.Fatalf("first drawing is %v", a)
	}
	if a[0][0].Y != a[0][1].Y {
		t.Errorf("fitted line not horizontal: %v", a[0])
	}

	bounds := boardBounds()
	for _, drawing := range task.Drawings {
		for _, pl := range drawing {
			for _, p := range pl {
				if p.X < bounds.X.Min-1e-9 || p.X > bounds.X.Max+1e-9 ||
					p.Y < bounds.Y.Min-1e-9 || p.Y > bounds.Y.Max+1e-9 {
					t.Fatalf("point %v outside the padded board", p)
				}
			}
		}
	}
}

func TestHeadlessStartEmptyDir(t *testing.T) {
	tasks := make(chan robot.PrintTask, 1)
	cfg := Config{SVGDir: t.TempDir(), IntervalSeconds: 60}
	if err := headlessStart(tasks, cfg); err == nil {
		t.Fatal("empty SVG directory accepted")
	}
}
