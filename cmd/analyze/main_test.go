package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzePreset(t *testing.T) {
	s, err := analyzePreset("tiny", 5, 20, 42)
	if err != nil {
		t.Fatalf("analyzePreset: %v", err)
	}

	if s.Failures != 0 {
		t.Errorf("Expected every maze to verify, got %d failures", s.Failures)
	}
	// The goal is 8 Manhattan steps away and a route visits each cell once.
	if s.MinRoute < 8 || s.MaxRoute > 24 {
		t.Errorf("Route lengths out of range: %d-%d", s.MinRoute, s.MaxRoute)
	}
	if s.MeanRoute < float64(s.MinRoute) || s.MeanRoute > float64(s.MaxRoute) {
		t.Errorf("Mean %f outside %d-%d", s.MeanRoute, s.MinRoute, s.MaxRoute)
	}
	if s.MeanDeadEnds < 1 {
		t.Errorf("Expected dead ends, got mean %f", s.MeanDeadEnds)
	}
	if s.RouteShare <= 0 || s.RouteShare > 1 {
		t.Errorf("Route share out of range: %f", s.RouteShare)
	}
}

func TestAnalyzePreset_Deterministic(t *testing.T) {
	a, _ := analyzePreset("classic", 10, 5, 9)
	b, _ := analyzePreset("classic", 10, 5, 9)
	if a != b {
		t.Errorf("Same seed gave different stats: %+v vs %+v", a, b)
	}
}

func TestAnalyzePreset_InvalidInput(t *testing.T) {
	if _, err := analyzePreset("none", 5, 0, 1); err == nil {
		t.Error("Expected error for zero samples")
	}
	if _, err := analyzePreset("none", 0, 1, 1); err == nil {
		t.Error("Expected error for zero size")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	preset := `{"name":"Tiny","description":"5x5","size":5}`
	if err := os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(preset), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := run(&buf, dir, 10, 1); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PRESET", "tiny", "5x5", "ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in report:\n%s", want, out)
		}
	}
}

func TestRun_MissingDir(t *testing.T) {
	if err := run(&bytes.Buffer{}, "/non/existent/path", 1, 1); err == nil {
		t.Error("Expected error for missing config directory")
	}
}

func TestWriteReport_Failures(t *testing.T) {
	var buf bytes.Buffer
	writeReport(&buf, []PresetStats{{ConfigID: "broken", Size: 5, Samples: 3, Failures: 2}})
	if !strings.Contains(buf.String(), "2 FAILED") {
		t.Errorf("Expected failure count in report:\n%s", buf.String())
	}
}
