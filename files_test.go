package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSaveAndOpenChart(t *testing.T) {
	m := testModel(t)
	m.getCanvas().AddBox(12, 3, "box")
	filename := filepath.Join(t.TempDir(), "chart.txt")

	if err := m.saveChart(filename); err != nil {
		t.Fatalf("saveChart: %v", err)
	}
	if m.getCurrentBuffer().filename != filename {
		t.Errorf("buffer filename = %q", m.getCurrentBuffer().filename)
	}

	m.openInNewBuffer = true
	if err := m.openChart(filename); err != nil {
		t.Fatalf("openChart: %v", err)
	}
	if len(m.buffers) != 2 || m.currentBufferIndex != 1 {
		t.Fatalf("buffers = %d, current %d", len(m.buffers), m.currentBufferIndex)
	}
	if diff := cmp.Diff(m.buffers[0].canvas.boxes, m.getCanvas().boxes); diff != "" {
		t.Errorf("boxes (-saved +opened):\n%s", diff)
	}
	if diff := cmp.Diff(m.buffers[0].canvas.Snapshot(1), m.getCanvas().Snapshot(1), ignoreView); diff != "" {
		t.Errorf("connector (-saved +opened):\n%s", diff)
	}
}

func TestOpenMissingFile(t *testing.T) {
	m := testModel(t)
	if err := m.openChart(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("openChart succeeded")
	}
	if m.errorMessage == "" {
		t.Error("no error shown")
	}
	if len(m.buffers) != 1 {
		t.Errorf("buffers = %d, want 1", len(m.buffers))
	}
}

func TestExportVisualTXT(t *testing.T) {
	m := testModel(t)
	m.getCanvas().RemoveConnector(1)
	m.getCanvas().AddBox(0, 0, "ab")
	m.width, m.height = 10, 4

	filename := filepath.Join(t.TempDir(), "chart.txt")
	if err := m.exportVisualTXT(filename); err != nil {
		t.Fatalf("exportVisualTXT: %v", err)
	}
	got, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	want := "+------+\n|ab    |\n+------+\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("export (-want +got):\n%s", diff)
	}
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		name, ext, want string
	}{
		{"chart", ".txt", "chart.txt"},
		{"chart.txt", ".txt", "chart.txt"},
		{"chart.PNG", ".png", "chart.PNG"},
	}
	for _, tt := range tests {
		if got := withExtension(tt.name, tt.ext); got != tt.want {
			t.Errorf("withExtension(%q, %q) = %q, want %q", tt.name, tt.ext, got, tt.want)
		}
	}
}
