package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"bendterm/bend"
	"bendterm/scene"

	"github.com/atotto/clipboard"
	"seehuhn.de/go/geom/vec"
)

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return &m.buffers[m.currentBufferIndex]
}

func (m *model) getCanvas() *Canvas {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.canvas
	}
	return nil
}

func (m *model) getPanOffset() (int, int) {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.panX, buf.panY
	}
	return 0, 0
}

func (m *model) worldCoords() (int, int) {
	panX, panY := m.getPanOffset()
	return m.cursorX + panX, m.cursorY + panY
}

func (m *model) addNewBuffer(canvas *Canvas, filename string, panX, panY int) {
	canvas.SetPan(panX, panY)
	m.buffers = append(m.buffers, Buffer{
		canvas:   canvas,
		filename: filename,
		panX:     panX,
		panY:     panY,
	})
	m.currentBufferIndex = len(m.buffers) - 1
}

func (m *model) recordAction(actionType ActionType, data, inverse interface{}) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	buf.undoStack = append(buf.undoStack, Action{
		Type:    actionType,
		Data:    data,
		Inverse: inverse,
	})
	buf.redoStack = buf.redoStack[:0]
}

// formatBendPoints writes bend points as space separated "x,y" pairs. A
// point attached to a box gets the box ID appended as "@id".
func formatBendPoints(points []bend.BendPoint) string {
	parts := make([]string, len(points))
	for i, bp := range points {
		parts[i] = formatCoord(bp.Position.X) + "," + formatCoord(bp.Position.Y)
		if id, ok := bp.Anchorage.(scene.ShapeID); ok {
			parts[i] += "@" + strconv.Itoa(int(id))
		}
	}
	return strings.Join(parts, " ")
}

func parseClipboardBendPoints(text string) ([]bend.BendPoint, error) {
	var points []bend.BendPoint
	for _, field := range strings.Fields(text) {
		coords, anchorage, attached := strings.Cut(field, "@")
		xs, ys, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("invalid bend point %q", field)
		}
		p, err := parseVec(xs, ys)
		if err != nil {
			return nil, err
		}
		if !attached {
			points = append(points, bend.Static(p))
			continue
		}
		id, err := strconv.Atoi(anchorage)
		if err != nil {
			return nil, fmt.Errorf("invalid box ID in %q: %w", field, err)
		}
		points = append(points, bend.Attached(p, scene.ShapeID(id)))
	}
	return points, nil
}

func (m *model) copyBendPoints(p vec.Vec2) error {
	view, _, err := m.connectorUnder(p)
	if err != nil {
		return err
	}
	return clipboard.WriteAll(formatBendPoints(view.BendPoints()))
}

// pasteBendPoints routes the connector under p through the interior points
// on the clipboard. The connector keeps its own endpoints.
func (m *model) pasteBendPoints(p vec.Vec2) error {
	view, _, err := m.connectorUnder(p)
	if err != nil {
		return err
	}
	text, err := readClipboardText()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	pasted, err := parseClipboardBendPoints(cleanClipboardText(text))
	if err != nil {
		return err
	}
	if len(pasted) >= 2 {
		pasted = pasted[1 : len(pasted)-1]
	}

	current := view.BendPoints()
	points := make([]bend.BendPoint, 0, len(pasted)+2)
	points = append(points, current[0])
	for _, bp := range pasted {
		points = append(points, bend.Static(bp.Position))
	}
	points = append(points, current[len(current)-1])
	return m.setBendPoints(view, points)
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText reduces rich clipboard content to plain text.
func cleanClipboardText(text string) string {
	switch {
	case isRTF(text):
		text = stripRTF(text)
	case isHTML(text):
		text = stripTags(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r >= 32 {
			return r
		}
		return ' '
	}, text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div"))
}

// stripRTF drops group braces and control words, keeping escaped literals.
func stripRTF(text string) string {
	var result strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '{' || r == '}':
		case r == '\\' && i+1 < len(runes):
			next := runes[i+1]
			if next == '\\' || next == '{' || next == '}' {
				result.WriteRune(next)
				i++
				continue
			}
			// control word, optionally followed by a numeric argument and one space
			for i+1 < len(runes) && (isLetter(runes[i+1]) || runes[i+1] == '-' || isDigit(runes[i+1])) {
				i++
			}
			if i+1 < len(runes) && runes[i+1] == ' ' {
				i++
			}
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

func stripTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.NewReplacer(
		"&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", "\"", "&#39;", "'", "&nbsp;", " ",
	).Replace(result.String())
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
