package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// exportVisualTXT writes the chart as it is drawn on screen, without the
// cursor and the status line.
func (m *model) exportVisualTXT(filename string) error {
	canvas := m.getCanvas()
	if canvas == nil {
		return fmt.Errorf("no canvas available")
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	width := m.width
	if width < 1 {
		width = 80
	}
	height := m.canvasHeight()
	if height < 1 {
		height = 24
	}

	w := bufio.NewWriter(file)
	for _, line := range canvas.Render(width, height, renderOptions{selectedBox: -1}) {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	return w.Flush()
}
