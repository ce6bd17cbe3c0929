package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bendterm/bend"
	"bendterm/scene"
)

// cellOverlayThreshold replaces the editor's pixel-sized defaults, as one
// scene unit is a whole terminal cell here.
const cellOverlayThreshold = 1.0

type Config struct {
	SaveDirectory           string
	StartMenu               bool
	Confirmations           bool
	Router                  scene.RouterKind
	OverlayThreshold        float64
	SegmentOverlayThreshold float64
	LogFile                 string
}

func defaultConfig() *Config {
	return &Config{
		StartMenu:               true,
		Confirmations:           true,
		Router:                  scene.RouterOrthogonal,
		OverlayThreshold:        cellOverlayThreshold,
		SegmentOverlayThreshold: cellOverlayThreshold,
	}
}

func loadConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig()
	}

	file, err := os.Open(filepath.Join(homeDir, ".bendtermrc"))
	if err != nil {
		return defaultConfig()
	}
	defer file.Close()

	return parseConfig(file, homeDir)
}

// parseConfig reads "key = value" lines. Unknown keys and malformed values
// are ignored.
func parseConfig(r io.Reader, homeDir string) *Config {
	config := defaultConfig()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "startmenu", "start_menu":
			config.StartMenu = strings.ToLower(value) == "true"
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		case "router":
			switch kind := scene.RouterKind(strings.ToLower(value)); kind {
			case scene.RouterStraight, scene.RouterOrthogonal:
				config.Router = kind
			}
		case "overlay_threshold", "overlaythreshold":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 0 {
				config.OverlayThreshold = v
			}
		case "segment_overlay_threshold", "segmentoverlaythreshold":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 0 {
				config.SegmentOverlayThreshold = v
			}
		case "logfile", "log_file":
			config.LogFile = expandPath(value, homeDir)
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) editorOptions() []bend.Option {
	return []bend.Option{
		bend.WithOverlayThreshold(c.OverlayThreshold),
		bend.WithSegmentOverlayThreshold(c.SegmentOverlayThreshold),
	}
}
