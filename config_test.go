package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bendterm/scene"

	"github.com/google/go-cmp/cmp"
)

func TestParseConfig(t *testing.T) {
	input := `# bendterm settings
savedirectory = ~/charts
router = Straight
overlay_threshold = 2.5
segment_overlay_threshold = -1
startmenu = false
confirmations = false
logfile = /tmp/bendterm.log
not a setting
colour = blue
`
	want := &Config{
		SaveDirectory:           "/home/u/charts",
		StartMenu:               false,
		Confirmations:           false,
		Router:                  scene.RouterStraight,
		OverlayThreshold:        2.5,
		SegmentOverlayThreshold: cellOverlayThreshold,
		LogFile:                 "/tmp/bendterm.log",
	}
	got := parseConfig(strings.NewReader(input), "/home/u")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	got := parseConfig(strings.NewReader("router = diagonal\n"), "/home/u")
	if diff := cmp.Diff(defaultConfig(), got); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestGetSavePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	c := &Config{}
	if got := c.GetSavePath("a.txt"); got != "a.txt" {
		t.Errorf("without save directory: %q", got)
	}

	c.SaveDirectory = dir
	if got := c.GetSavePath("a.txt"); got != filepath.Join(dir, "a.txt") {
		t.Errorf("with save directory: %q", got)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("save directory not created: %v", err)
	}
	if got := c.GetSavePath("/abs/a.txt"); got != "/abs/a.txt" {
		t.Errorf("absolute path rewritten to %q", got)
	}
}
